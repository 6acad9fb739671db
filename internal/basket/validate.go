package basket

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Violation is a single constraint failure.
type Violation struct {
	// Field is the JSON name of the offending field (e.g. "quantity").
	Field string `json:"field"`

	// Message is the human-readable description (e.g. "Quantity must be at least 1").
	Message string `json:"message"`
}

// Violations is the list of constraint failures for one BasketRequest.
//
// A nil (or empty) Violations means the value is valid.
type Violations []Violation

// Error renders one "field: message" line per violation.
func (v Violations) Error() string {
	lines := make([]string, 0, len(v))
	for _, violation := range v {
		lines = append(lines, fmt.Sprintf("%s: %s", violation.Field, violation.Message))
	}
	return strings.Join(lines, "\n")
}

// validate is shared by all requests. *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names ("quantity") instead of Go names ("Quantity").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate evaluates every constraint declared on BasketRequest.
//
// Constraints are evaluated in field declaration order. For this schema that
// is a single rule: quantity >= 1.
//
// It returns nil when r is valid, otherwise the list of violations.
// Validate is pure: it depends only on r and performs no I/O.
func Validate(r BasketRequest) Violations {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		// Only reachable if the schema itself is broken (e.g. a malformed tag).
		return Violations{{Message: err.Error()}}
	}

	violations := make(Violations, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, Violation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}

	return violations
}

// Validate satisfies validation.Validatable.
//
// The explicit nil return keeps a nil Violations from becoming a non-nil error.
func (r *BasketRequest) Validate() error {
	if violations := Validate(*r); len(violations) > 0 {
		return violations
	}
	return nil
}

// violationMessage prefers the `message` tag declared next to the rule and
// falls back to a generated sentence.
func violationMessage(fe validator.FieldError) string {
	if field, ok := reflect.TypeOf(BasketRequest{}).FieldByName(fe.StructField()); ok {
		if msg := field.Tag.Get("message"); msg != "" {
			return msg
		}
	}

	name := humanizeField(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s", name, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s:%s", name, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

// humanizeField turns "item_id" into "Item Id".
//
// A Caser is stateful, so one is built per call.
func humanizeField(field string) string {
	if field == "" {
		return "Value"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}
