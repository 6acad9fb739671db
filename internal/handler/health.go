package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/basket-guard/internal/middleware"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a liveness endpoint for monitors and load balancers.
//
// The service has no dependencies to probe, so a response means it is up.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// CheckHealth returns 200 with the current time and environment.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	logger.Debug().Msg("health check passed")
	return nil
}
