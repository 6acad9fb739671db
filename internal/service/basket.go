package service

import (
	"context"

	"github.com/deppfellow/basket-guard/internal/basket"
	"github.com/deppfellow/basket-guard/internal/metrics"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/rs/zerolog"
)

// BasketService is the side-effect sink behind both basket endpoints.
//
// It holds no per-request state; concurrent calls need no locking.
type BasketService struct {
	server *server.Server
}

func NewBasketService(s *server.Server) *BasketService {
	return &BasketService{server: s}
}

// AddItem acknowledges an item for the given endpoint.
//
// It trusts req as given. Whether req was validated is the caller's decision.
func (b *BasketService) AddItem(ctx context.Context, endpoint string, req basket.BasketRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.server.Metrics.RecordDecision(endpoint, metrics.DecisionAccepted)

	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = b.server.Logger
	}

	logger.Debug().
		Str("endpoint", endpoint).
		Uint32("item_id", req.ItemID).
		Int32("quantity", req.Quantity).
		Msg("item acknowledged by basket sink")

	return nil
}

// Reject records that the endpoint refused a request.
func (b *BasketService) Reject(endpoint string) {
	b.server.Metrics.RecordDecision(endpoint, metrics.DecisionRejected)
}
