// Package errs defines the error shapes returned to API clients.
//
// Every request-path failure ends up as an *HTTPError, so the client always
// receives the same structure:
//
//   - Code: machine-friendly code (e.g. "VALIDATION_FAILED")
//   - Message: human-readable summary
//   - Status: HTTP status code
//   - Errors: optional field-level errors (one per violated constraint)
//
// The global error handler renders an HTTPError as text/plain using Text().
package errs

import (
	"strings"
)

// FieldError represents a field-level error.
// Example:
//
//	{ "field": "quantity", "error": "Quantity must be at least 1" }
type FieldError struct {
	// Field is the JSON field name the error relates to.
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level errors, typically constraint violations.
	Errors []FieldError `json:"errors"`
}

// Error returns the Message, so logging the error shows the summary.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status/etc., only the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Text renders the error as a plain-text response body.
//
// Layout:
//
//	Validation failed
//	quantity: Quantity must be at least 1
//
// The first line is the Message, followed by one "field: error" line per
// FieldError, in order.
func (e *HTTPError) Text() string {
	var b strings.Builder
	b.WriteString(e.Message)

	for _, fe := range e.Errors {
		b.WriteString("\n")
		if fe.Field != "" {
			b.WriteString(fe.Field)
			b.WriteString(": ")
		}
		b.WriteString(fe.Error)
	}

	return b.String()
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
