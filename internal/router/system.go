package router

import (
	"github.com/deppfellow/basket-guard/internal/handler"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the basket logic:
//  1. Liveness endpoint
//  2. OpenAPI document
//  3. Prometheus exposition, when metrics are enabled
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/docs", h.OpenAPI.ServeOpenAPI)

	if s.Config.Metrics.Enabled {
		r.GET(s.Config.Metrics.Path, echo.WrapHandler(s.Metrics.Handler()))
	}
}
