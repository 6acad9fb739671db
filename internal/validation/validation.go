// Package validation is the request front end between Echo and the handlers.
//
// It owns two separate steps:
//   - Bind reads the body and decodes it (type conformance). It runs for
//     every request before any handler is invoked.
//   - Check evaluates declared constraints (value conformance). It runs
//     only when a handler decides to call it.
//
// Both convert failures into *errs.HTTPError so the global error handler can
// render a consistent 400.
package validation

import (
	"errors"
	"fmt"
	"io"

	"github.com/deppfellow/basket-guard/internal/basket"
	"github.com/deppfellow/basket-guard/internal/errs"
	"github.com/labstack/echo/v4"
)

// Decodable is implemented by request payload types that know how to decode
// themselves from a raw body.
//
// In practice implementations are POINTER types (e.g. *basket.BasketRequest)
// so DecodeJSON can populate the receiver.
type Decodable interface {
	DecodeJSON(data []byte) error
}

// Validatable is implemented by request payload types that know how to
// validate themselves.
type Validatable interface {
	Validate() error
}

// Bind reads the request body and decodes it into payload.
//
// Flow:
//  1. Read the body. The BodyLimit middleware caps it; exceeding the cap
//     surfaces as Echo's 413 error, which is returned unchanged.
//  2. payload.DecodeJSON(body) establishes type conformance.
//  3. Any decode failure becomes a 400 *errs.HTTPError.
//
// Bind never evaluates value constraints.
func Bind(c echo.Context, payload Decodable) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			return echoErr
		}
		return errs.NewDecodeError(fmt.Errorf("failed to read request body: %w", err))
	}

	if err := payload.DecodeJSON(body); err != nil {
		return errs.NewDecodeError(err)
	}

	return nil
}

// Check runs payload.Validate() and converts failures into a 400 with
// field-level errors. It returns nil when the payload is valid.
func Check(payload Validatable) error {
	err := payload.Validate()
	if err == nil {
		return nil
	}

	return errs.NewValidationError(extractValidationError(err))
}

// extractValidationError converts a Validate error into FieldErrors.
//
// basket.Violations keep one FieldError per violation; any other error
// becomes a single FieldError without a field.
func extractValidationError(err error) []errs.FieldError {
	var violations basket.Violations
	if !errors.As(err, &violations) {
		return []errs.FieldError{{Error: err.Error()}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(violations))
	for _, v := range violations {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: v.Field,
			Error: v.Message,
		})
	}
	return fieldErrors
}
