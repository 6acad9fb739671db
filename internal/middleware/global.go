package middleware

import (
	"net/http"

	"github.com/deppfellow/basket-guard/internal/errs"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
//
// The struct gives every middleware access to *server.Server, mostly for
// config and logging.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// RequestLogger returns Echo's request logger middleware with a zerolog sink.
//
// Handlers already emit the [VULNERABLE]/[FIXED] line at Info, so the access
// line stays at Debug unless the request failed on the server side.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := ResolveStatus(v.Error, v.Status)

			logger := GetLogger(c)

			var e *zerolog.Event
			if statusCode >= http.StatusInternalServerError {
				e = logger.Error().Err(v.Error)
			} else {
				e = logger.Debug()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// ResolveStatus returns the status the global error handler will write for err.
//
// When a handler returns an error Echo has not written the final status yet,
// so the logged status is derived from the error type.
// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
func ResolveStatus(err error, fallback int) int {
	if err == nil {
		return fallback
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// Recover returns Echo's panic recovery middleware.
//
// Panics become errors handed to GlobalErrorHandler, which answers 500.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// BodyLimit caps request bodies at Server.BodyLimit (e.g. "1M").
//
// Oversized bodies are answered with 413 before any decoding happens.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error returned by a handler or middleware ends up here and is
// rendered as a text/plain body:
//
//   - *errs.HTTPError: its Status, and Text() as the body
//   - *echo.HTTPError 404: "Route not found"
//   - other *echo.HTTPError: its code and message (405, 413, ...)
//   - anything else: 500 with a generic body; the cause is only logged
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if echoErr.Code == http.StatusNotFound {
				httpErr = errs.NewNotFoundError("Route not found", false, nil)
			} else {
				httpErr = fromEchoError(echoErr)
			}
		} else {
			httpErr = errs.NewInternalServerError()
		}
	}

	logger := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack()
	} else {
		e = logger.Debug()
	}

	e.Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.String(httpErr.Status, httpErr.Text())
}

// fromEchoError converts Echo's own error type into an *errs.HTTPError.
//
// Echo messages may be any type; non-string messages fall back to the status text.
func fromEchoError(echoErr *echo.HTTPError) *errs.HTTPError {
	message, ok := echoErr.Message.(string)
	if !ok {
		message = http.StatusText(echoErr.Code)
	}

	return &errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
		Message: message,
		Status:  echoErr.Code,
	}
}
