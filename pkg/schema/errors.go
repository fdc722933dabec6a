package schema

import (
	"errors"
	"fmt"
)

// Reason classifies a SchemaError.
type Reason string

const (
	ReasonEmptyName     Reason = "empty name"
	ReasonDuplicateName Reason = "duplicate name"
	ReasonUnknownType   Reason = "unknown type"
	ReasonMalformed     Reason = "malformed definition"
)

// ErrSchema is matched by every SchemaError through errors.Is.
var ErrSchema = errors.New("schema: invalid field definitions")

// SchemaError reports a malformed or duplicated field definition. It is fatal
// at derivation time: a form must not be built from a schema that raises it.
type SchemaError struct {
	Field  string
	Index  int
	Reason Reason
	Detail string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ErrSchema.Error()
	}
	msg := fmt.Sprintf("schema: field #%d", e.Index)
	if e.Field != "" {
		msg = fmt.Sprintf("schema: field %q", e.Field)
	}
	msg += ": " + string(e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is lets errors.Is(err, ErrSchema) match any SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
