package handler

import (
	"time"

	"github.com/deppfellow/basket-guard/internal/middleware"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/deppfellow/basket-guard/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers (BasketHandler, HealthHandler, ...) embed it to reach
// config and the logger through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
//
// It returns the struct by value; copies still share the same *server.Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------

// HandlerFunc represents a typed endpoint function that:
//
//   - receives a decoded request payload (Req)
//   - returns a plain-text response body or an error
//
// Req is decoded but NOT validated. Whether declared constraints are
// evaluated is decided inside the endpoint function.
// In practice Req is a POINTER type, e.g. *basket.BasketRequest.
type HandlerFunc[Req validation.Decodable] func(c echo.Context, req Req) (string, error)

// ResponseHandler defines how a successful handler result is written to the
// HTTP response and which tracing attributes belong to it.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result string) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on the response.
	AddAttributes(txn *newrelic.Transaction, result string)
}

// TextResponseHandler writes text/plain responses with a given status code.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result string) error {
	return c.String(h.status, result)
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result string) {
	if txn != nil {
		txn.AddAttribute("response.size_bytes", len(result))
	}
}

// handleRequest is the shared execution pipeline for all typed handlers.
//
// It centralizes:
//
//   - reading and decoding the body (validation.Bind)
//   - structured logging with the request-scoped logger
//   - New Relic attributes for the decode and handler phases
//   - writing the response through the ResponseHandler
//
// A decode failure ends the request here; the endpoint function is never
// invoked with a partial payload. All pipeline logs are Debug: the endpoint
// function owns the single Info line of the request.
func handleRequest[Req validation.Decodable](
	c echo.Context,
	req Req,
	handler HandlerFunc[Req],
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	// ---------------- Decode phase -------------------------------------------
	decodeStart := time.Now()

	if err := validation.Bind(c, req); err != nil {
		decodeDuration := time.Since(decodeStart)

		logger.Debug().
			Err(err).
			Dur("decode_duration", decodeDuration).
			Msg("request body could not be decoded")

		if txn != nil {
			txn.AddAttribute("decode.status", "failed")
			txn.AddAttribute("decode.duration_ms", decodeDuration.Milliseconds())
		}

		return err
	}

	decodeDuration := time.Since(decodeStart)
	if txn != nil {
		txn.AddAttribute("decode.status", "success")
		txn.AddAttribute("decode.duration_ms", decodeDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Debug().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler returned error")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("decode_duration", decodeDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// HandleText wraps a typed handler into an echo.HandlerFunc that answers
// text/plain with the given status on success.
//
// newReq is called once per request so concurrent requests never share a
// payload value.
//
// Usage:
//
//	r.POST("/fixed/basket", handler.HandleText(h.Handler, h.AddChecked, http.StatusOK, newBasketRequest))
func HandleText[Req validation.Decodable](
	h Handler,
	handler HandlerFunc[Req],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), handler, TextResponseHandler{status: status})
	}
}
