// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/basket-guard/internal/handler"
	"github.com/deppfellow/basket-guard/internal/middleware"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance serving every route of the service.
//
// Middleware order matters:
//  1. RequestID before anything that logs or traces.
//  2. New Relic transaction, then custom attributes on it.
//  3. ContextEnhancer, so the request logger carries request id and trace ids.
//  4. RequestLogger wraps Recover, so recovered panics are logged as 500.
//  5. BodyLimit last, closest to the handler reading the body.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, s, h)
	registerBasketRoutes(router, h)

	return router
}
