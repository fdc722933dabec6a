// Package validation holds the synchronous per-field validators of a dynamic
// form. Results are data: validators never fail, they describe what is wrong.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-dynform/pkg/schema"
)

// Inline messages shown next to an invalid input.
const (
	MessageRequired  = "This field is required."
	MessageMinLength = "This field is too short."
	MessageEmail     = "This needs to be a valid email."
	MessageNumber    = "This needs to be a number."
)

var shapes = validator.New()

// Constraints are the declarative limits attached to a field.
type Constraints struct {
	Required  bool
	MinLength int
}

// ErrorSet is the full result of validating one value. It is recomputed from
// scratch on every call.
type ErrorSet struct {
	Required  bool `json:"required"`
	MinLength bool `json:"minLength"`
	Email     bool `json:"email"`
	Number    bool `json:"number,omitempty"`
}

// HasErrors reports whether any check failed.
func (e ErrorSet) HasErrors() bool {
	return e.Required || e.MinLength || e.Email || e.Number
}

// Messages lists the inline messages for the failed checks in display order.
func (e ErrorSet) Messages() []string {
	var out []string
	if e.Required {
		out = append(out, MessageRequired)
	}
	if e.MinLength {
		out = append(out, MessageMinLength)
	}
	if e.Email {
		out = append(out, MessageEmail)
	}
	if e.Number {
		out = append(out, MessageNumber)
	}
	return out
}

// Validate checks value against the rules for typ.
//
//   - required: the field is required and the value is nil or "". Numbers and
//     booleans (false included) never fail it.
//   - minLength: string-like types only, rune length below the limit.
//   - email: email fields holding a non-empty value that is not an address.
//   - number: number fields holding a non-empty value that does not parse.
func Validate(typ schema.FieldType, value any, c Constraints) ErrorSet {
	var out ErrorSet

	if c.Required && IsEmpty(value) {
		out.Required = true
	}

	if typ.StringLike() && c.MinLength > 0 && length(value) < c.MinLength {
		out.MinLength = true
	}

	switch typ {
	case schema.FieldTypeEmail:
		if !IsEmpty(value) && !IsEmail(stringify(value)) {
			out.Email = true
		}
	case schema.FieldTypeNumber:
		if !IsEmpty(value) {
			if _, ok := ToNumber(value); !ok {
				out.Number = true
			}
		}
	case schema.FieldTypeText, schema.FieldTypeString, schema.FieldTypePassword,
		schema.FieldTypeCheckbox, schema.FieldTypeFile:
	}

	return out
}

// IsEmpty reports whether value counts as "no input".
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	default:
		return false
	}
}

// IsEmail reports whether s has the shape of an email address.
func IsEmail(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return shapes.Var(s, "required,email") == nil
}

// ToNumber converts numeric Go values and numeric strings to float64.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func length(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(v)
	case []byte:
		return utf8.RuneCount(v)
	default:
		return utf8.RuneCountInString(fmt.Sprint(v))
	}
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
