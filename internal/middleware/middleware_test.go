package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/basket-guard/internal/config"
	"github.com/deppfellow/basket-guard/internal/errs"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, out *bytes.Buffer) *server.Server {
	t.Helper()

	logger := zerolog.New(out).Level(zerolog.DebugLevel)
	s, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)
	return s
}

func newTestEcho(t *testing.T, out *bytes.Buffer) (*echo.Echo, *Middlewares) {
	t.Helper()

	m := NewMiddlewares(newTestServer(t, out))

	e := echo.New()
	e.HTTPErrorHandler = m.Global.GlobalErrorHandler
	e.Use(
		RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
		m.Global.BodyLimit(),
	)
	return e, m
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_GeneratesAndReuses(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e, _ := newTestEcho(t, &buf)

	var seen string
	e.GET("/id", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.String(http.StatusOK, seen)
	})

	rec := serve(e, http.MethodGet, "/id", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestGetLogger_DefaultsToNop(t *testing.T) {
	t.Parallel()

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	logger := GetLogger(c)
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestContextEnhancer_AttachesRequestFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e, _ := newTestEcho(t, &buf)

	e.GET("/log", func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo context")
		zerolog.Ctx(c.Request().Context()).Info().Msg("from go context")
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, http.MethodGet, "/log", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	out := buf.String()
	assert.Contains(t, out, `"message":"from echo context"`)
	assert.Contains(t, out, `"message":"from go context"`)
	assert.Contains(t, out, `"path":"/log"`)
	assert.Contains(t, out, `"request_id":"`+rec.Header().Get(RequestIDHeader)+`"`)
}

func TestGlobalErrorHandler_RendersText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e, _ := newTestEcho(t, &buf)

	e.POST("/validation", func(c echo.Context) error {
		return errs.NewValidationError([]errs.FieldError{{Field: "quantity", Error: "Quantity must be at least 1"}})
	})
	e.POST("/decode", func(c echo.Context) error {
		return errs.NewDecodeError(errors.New("quantity: missing field"))
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("secret internal detail")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})

	rec := serve(e, http.MethodPost, "/validation", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed\nquantity: Quantity must be at least 1", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))

	rec = serve(e, http.MethodPost, "/decode", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Json deserialize error: quantity: missing field", rec.Body.String())

	rec = serve(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = serve(e, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(e, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", rec.Body.String())

	rec = serve(e, http.MethodGet, "/validation", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBodyLimit_RejectsOversizedBody(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	cfg := config.DefaultConfig()
	cfg.Server.BodyLimit = "1K"
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	m := NewMiddlewares(s)
	e := echo.New()
	e.HTTPErrorHandler = m.Global.GlobalErrorHandler
	e.Use(m.Global.BodyLimit())
	e.POST("/echo", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := serve(e, http.MethodPost, "/echo", strings.Repeat("a", 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestResolveStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusOK, ResolveStatus(nil, http.StatusOK))
	assert.Equal(t, http.StatusBadRequest, ResolveStatus(errs.NewDecodeError(errors.New("x")), http.StatusOK))
	assert.Equal(t, http.StatusMethodNotAllowed, ResolveStatus(echo.ErrMethodNotAllowed, http.StatusOK))
	assert.Equal(t, http.StatusInternalServerError, ResolveStatus(errors.New("x"), http.StatusOK))
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e, _ := newTestEcho(t, &buf)

	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })

	serve(e, http.MethodGet, "/ok", "")
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.NotContains(t, buf.String(), `"level":"error"`)

	buf.Reset()
	serve(e, http.MethodGet, "/fail", "")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
