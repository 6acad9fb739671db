package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/basket-guard/internal/basket"
	"github.com/deppfellow/basket-guard/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return e.NewContext(req, httptest.NewRecorder())
}

//
// -----------------------------------------------------------------------------
// Bind
// -----------------------------------------------------------------------------

// TestBind_DecodesWithoutValidating verifies an invalid quantity still binds.
func TestBind_DecodesWithoutValidating(t *testing.T) {
	t.Parallel()

	req := &basket.BasketRequest{}
	require.NoError(t, Bind(newContext(`{"item_id":42,"quantity":-3}`), req))
	assert.Equal(t, basket.BasketRequest{ItemID: 42, Quantity: -3}, *req)
}

// TestBind_DecodeError verifies decode failures become a 400 INVALID_BODY.
func TestBind_DecodeError(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"item_id":42}`, `not json`, ``, `{"item_id":42,"quantity":"x"}`} {
		err := Bind(newContext(body), &basket.BasketRequest{})
		require.Error(t, err, body)

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr), body)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, errs.CodeInvalidBody, httpErr.Code)
		assert.True(t, strings.HasPrefix(httpErr.Message, "Json deserialize error: "))
	}
}

// TestBind_BodyLimit verifies an oversized body surfaces Echo's 413.
func TestBind_BodyLimit(t *testing.T) {
	t.Parallel()

	e := echo.New()
	body := `{"item_id":1,"quantity":1,"padding":"` + strings.Repeat("x", 4096) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.ContentLength = -1 // force the streaming limit path
	c := e.NewContext(req, httptest.NewRecorder())

	handler := middleware.BodyLimit("1K")(func(c echo.Context) error {
		return Bind(c, &basket.BasketRequest{})
	})

	err := handler(c)
	require.Error(t, err)

	var echoErr *echo.HTTPError
	require.True(t, errors.As(err, &echoErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, echoErr.Code)
}

//
// -----------------------------------------------------------------------------
// Check
// -----------------------------------------------------------------------------

// TestCheck_Valid verifies a conforming payload passes.
func TestCheck_Valid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Check(&basket.BasketRequest{ItemID: 1, Quantity: 1}))
}

// TestCheck_Violations verifies basket violations map to field errors.
func TestCheck_Violations(t *testing.T) {
	t.Parallel()

	err := Check(&basket.BasketRequest{ItemID: 42, Quantity: 0})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, errs.CodeValidationFailed, httpErr.Code)
	assert.Equal(t, []errs.FieldError{{Field: "quantity", Error: "Quantity must be at least 1"}}, httpErr.Errors)
	assert.Contains(t, httpErr.Text(), "Quantity must be at least 1")
}

type opaquePayload struct{}

func (opaquePayload) Validate() error { return errors.New("nope") }

// TestCheck_OpaqueError verifies an error that is not a violation list still yields a 400.
func TestCheck_OpaqueError(t *testing.T) {
	t.Parallel()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(Check(opaquePayload{}), &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Error: "nope"}}, httpErr.Errors)
	assert.Equal(t, "Validation failed\nnope", httpErr.Text())
}
