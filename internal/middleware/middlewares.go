// Package middleware stores the global middleware chain.
//
// These intercept requests to handle cross-cutting concerns such as request
// ids, request-scoped logging, body size limits, New Relic tracing, panic
// recovery and the final error-to-response mapping.
package middleware

import (
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups all middleware components used by the HTTP server.
//
// Build once in the router, reuse everywhere.
type Middlewares struct {
	// Global holds common middleware used across the whole API:
	// request logging, recovery, secure headers, body limit and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom transaction attributes.
	Tracing *TracingMiddleware
}

// NewMiddlewares constructs all middleware components using the application container.
//
// When New Relic is not configured nrApp is nil and tracing degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
	}
}
