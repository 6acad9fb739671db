// Package basket defines the add-to-basket request schema and its constraints.
//
// Decoding and validation are two separate steps:
//   - Decode establishes type conformance (JSON shape, required fields, integer widths).
//   - Validate establishes value conformance (the constraints declared on the fields).
//
// A BasketRequest can therefore exist in memory in an invalid state
// (e.g. Quantity == 0 or Quantity == -5). Whether the declared constraints are
// evaluated is decided by the caller, not by this package.
package basket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// BasketRequest is the decoded payload of an add-to-basket request.
//
// Constraints are declared with struct tags:
//   - `validate` holds the go-playground/validator rule.
//   - `message` holds the human-readable text reported when the rule fails.
//
// Declaring a constraint here does NOT enforce it. Only Validate does.
type BasketRequest struct {
	// ItemID has no semantic constraint beyond decoding as a uint32.
	ItemID uint32 `json:"item_id"`

	// Quantity must be at least 1.
	Quantity int32 `json:"quantity" validate:"min=1" message:"Quantity must be at least 1"`
}

// DecodeError describes the first incompatibility found while decoding a body.
//
// Field is the JSON field the error relates to, empty when the problem is
// structural (malformed JSON, wrong top-level type, trailing data).
type DecodeError struct {
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Known JSON keys. Keys are matched exactly; "Quantity" or "ITEM_ID" are
// unknown fields, not aliases.
const (
	fieldItemID   = "item_id"
	fieldQuantity = "quantity"
)

// Decode parses data into a BasketRequest.
//
// Rules:
//   - data must hold exactly one JSON object
//   - keys are case-sensitive; unknown keys are ignored
//   - item_id and quantity are required; null counts as missing
//   - a known key may appear only once
//   - numbers must be integers that fit uint32 / int32 respectively
//
// On failure it returns a *DecodeError describing the first incompatibility.
// Decode never evaluates the declared constraints.
func Decode(data []byte) (BasketRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return BasketRequest{}, &DecodeError{Reason: "empty body", Err: io.EOF}
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return BasketRequest{}, newDecodeError(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return BasketRequest{}, &DecodeError{
			Reason: fmt.Sprintf("invalid type: %s, expected a JSON object", tokenKind(tok)),
		}
	}

	var (
		itemID                   *uint32
		quantity                 *int32
		seenItemID, seenQuantity bool
	)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return BasketRequest{}, newDecodeError(unexpectedEOF(err))
		}
		key, ok := tok.(string)
		if !ok {
			return BasketRequest{}, &DecodeError{Reason: fmt.Sprintf("invalid object key: %v", tok)}
		}

		switch key {
		case fieldItemID:
			if seenItemID {
				return BasketRequest{}, &DecodeError{Field: key, Reason: "duplicate field"}
			}
			seenItemID = true
			if itemID, err = decodeField[uint32](dec, key); err != nil {
				return BasketRequest{}, err
			}

		case fieldQuantity:
			if seenQuantity {
				return BasketRequest{}, &DecodeError{Field: key, Reason: "duplicate field"}
			}
			seenQuantity = true
			if quantity, err = decodeField[int32](dec, key); err != nil {
				return BasketRequest{}, err
			}

		default:
			var skipped json.RawMessage
			if err := dec.Decode(&skipped); err != nil {
				return BasketRequest{}, newDecodeError(unexpectedEOF(err))
			}
		}
	}

	if tok, err := dec.Token(); err != nil {
		return BasketRequest{}, newDecodeError(unexpectedEOF(err))
	} else if delim, ok := tok.(json.Delim); !ok || delim != '}' {
		return BasketRequest{}, &DecodeError{Reason: fmt.Sprintf("unexpected token %v, expected end of object", tok)}
	}

	// Exactly one JSON value is accepted; anything but whitespace after it is rejected.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return BasketRequest{}, &DecodeError{Reason: "trailing data after JSON value", Err: err}
	}

	// Required fields are checked in declaration order.
	if itemID == nil {
		return BasketRequest{}, &DecodeError{Field: fieldItemID, Reason: "missing field"}
	}
	if quantity == nil {
		return BasketRequest{}, &DecodeError{Field: fieldQuantity, Reason: "missing field"}
	}

	return BasketRequest{
		ItemID:   *itemID,
		Quantity: *quantity,
	}, nil
}

// decodeField decodes the value following key into a *T. A JSON null yields nil.
//
// Type mismatches and overflows ("number 4294967296" into uint32) are
// reported against key.
func decodeField[T uint32 | int32](dec *json.Decoder, key string) (*T, error) {
	var v *T
	if err := dec.Decode(&v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &DecodeError{
				Field:  key,
				Reason: fmt.Sprintf("invalid value: %s, expected %s", typeErr.Value, typeErr.Type),
				Err:    err,
			}
		}
		return nil, newDecodeError(unexpectedEOF(err))
	}
	return v, nil
}

// tokenKind names the JSON kind of a top-level token.
func tokenKind(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return string(v)
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// unexpectedEOF turns an io.EOF met inside the object into io.ErrUnexpectedEOF.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// DecodeJSON decodes data into r. It satisfies validation.Decodable.
//
// r is left untouched when decoding fails.
func (r *BasketRequest) DecodeJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// newDecodeError maps encoding/json syntax and read failures onto DecodeError.
func newDecodeError(err error) *DecodeError {
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &syntaxErr):
		return &DecodeError{
			Reason: fmt.Sprintf("%s at offset %d", syntaxErr.Error(), syntaxErr.Offset),
			Err:    err,
		}

	case errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Reason: "unexpected end of JSON input", Err: err}

	default:
		return &DecodeError{Reason: err.Error(), Err: err}
	}
}
