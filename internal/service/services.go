// Package service contains the business logic.
//
// It sits behind the handler layer and receives already-decoded requests.
// There is no basket behind "add to basket": BasketService is a sink that
// acknowledges items and counts decisions.
package service

import (
	"github.com/deppfellow/basket-guard/internal/server"
)

// Services groups every service so handler wiring passes one object around.
type Services struct {
	Basket *BasketService
}

// NewServices constructs the service container.
func NewServices(s *server.Server) (*Services, error) {
	return &Services{
		Basket: NewBasketService(s),
	}, nil
}
