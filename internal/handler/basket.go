package handler

import (
	"net/http"

	"github.com/deppfellow/basket-guard/internal/basket"
	"github.com/deppfellow/basket-guard/internal/metrics"
	"github.com/deppfellow/basket-guard/internal/middleware"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/deppfellow/basket-guard/internal/service"
	"github.com/deppfellow/basket-guard/internal/validation"
	"github.com/labstack/echo/v4"
)

// Response bodies of the basket endpoints.
const (
	VulnerableAcceptedBody = "VULNERABLE: Item was added to basket."
	FixedAcceptedBody      = "FIXED: Item added to basket."
)

// BasketHandler serves the two add-to-basket endpoints.
//
// Both receive the same decoded *basket.BasketRequest. They differ only in
// whether the declared constraints are evaluated.
type BasketHandler struct {
	Handler
	basketService *service.BasketService
}

func NewBasketHandler(s *server.Server, basketService *service.BasketService) *BasketHandler {
	return &BasketHandler{
		Handler:       NewHandler(s),
		basketService: basketService,
	}
}

func newBasketRequest() *basket.BasketRequest {
	return &basket.BasketRequest{}
}

// AddUnchecked acknowledges the item without evaluating any constraint.
//
// The decision line is logged once the sink accepted the item, so a
// cancelled request logs nothing at Info.
// Quantities <= 0 are accepted and passed on as-is. This is the defect the
// /vulnerable/basket route exists to show; do not add a Check here.
func (h *BasketHandler) AddUnchecked(c echo.Context, req *basket.BasketRequest) (string, error) {
	if err := h.basketService.AddItem(c.Request().Context(), metrics.EndpointVulnerable, *req); err != nil {
		return "", err
	}

	middleware.GetLogger(c).Info().
		Uint32("item_id", req.ItemID).
		Int32("quantity", req.Quantity).
		Msgf("[VULNERABLE] adding item %d with quantity %d", req.ItemID, req.Quantity)

	return VulnerableAcceptedBody, nil
}

// AddChecked evaluates the declared constraints before acknowledging the item.
//
// Violations are returned as a 400 carrying one line per violation.
func (h *BasketHandler) AddChecked(c echo.Context, req *basket.BasketRequest) (string, error) {
	logger := middleware.GetLogger(c)

	if err := validation.Check(req); err != nil {
		logger.Info().
			Uint32("item_id", req.ItemID).
			Int32("quantity", req.Quantity).
			Msgf("[FIXED] rejected request with invalid quantity: %d", req.Quantity)

		h.basketService.Reject(metrics.EndpointFixed)
		return "", err
	}

	if err := h.basketService.AddItem(c.Request().Context(), metrics.EndpointFixed, *req); err != nil {
		return "", err
	}

	logger.Info().
		Uint32("item_id", req.ItemID).
		Int32("quantity", req.Quantity).
		Msgf("[FIXED] successfully added item %d with quantity %d", req.ItemID, req.Quantity)

	return FixedAcceptedBody, nil
}

// Unchecked is the routable form of AddUnchecked.
func (h *BasketHandler) Unchecked() echo.HandlerFunc {
	return HandleText(h.Handler, h.AddUnchecked, http.StatusOK, newBasketRequest)
}

// Checked is the routable form of AddChecked.
func (h *BasketHandler) Checked() echo.HandlerFunc {
	return HandleText(h.Handler, h.AddChecked, http.StatusOK, newBasketRequest)
}
