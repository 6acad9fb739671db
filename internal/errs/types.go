package errs

import (
	"net/http"
)

const (
	// CodeInvalidBody marks a body that could not be decoded into the request schema.
	CodeInvalidBody = "INVALID_BODY"

	// CodeValidationFailed marks a decoded request that violates declared constraints.
	CodeValidationFailed = "VALIDATION_FAILED"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewDecodeError converts a body decoding failure into a 400.
//
// Used by the front end before any handler runs:
//
//	Json deserialize error: quantity: missing field
func NewDecodeError(err error) *HTTPError {
	code := CodeInvalidBody
	return NewBadRequestError("Json deserialize error: "+err.Error(), false, &code, nil)
}

// NewValidationError converts constraint violations into a 400 with one
// FieldError per violation.
func NewValidationError(fieldErrors []FieldError) *HTTPError {
	code := CodeValidationFailed
	return NewBadRequestError("Validation failed", true, &code, fieldErrors)
}
