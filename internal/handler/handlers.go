// Package handler is the first layer after the router.
//
// It decodes requests through the validation package, decides whether
// declared constraints are evaluated, and calls the service layer.
package handler

import (
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/deppfellow/basket-guard/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Basket  *BasketHandler  // Basket serves the vulnerable and fixed add-to-basket routes.
	Health  *HealthHandler  // Health serves the liveness endpoint.
	OpenAPI *OpenAPIHandler // OpenAPI serves the API document.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Basket:  NewBasketHandler(s, services.Basket),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
