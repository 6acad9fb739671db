package router

import (
	"github.com/deppfellow/basket-guard/internal/handler"
	"github.com/labstack/echo/v4"
)

// Basket route paths.
const (
	VulnerableBasketPath = "/vulnerable/basket"
	FixedBasketPath      = "/fixed/basket"
)

// registerBasketRoutes binds the two decision policies to their paths.
func registerBasketRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST(VulnerableBasketPath, h.Basket.Unchecked())
	r.POST(FixedBasketPath, h.Basket.Checked())
}
