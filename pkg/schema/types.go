package schema

import (
	"fmt"
	"strings"
)

// FieldType is the closed set of input kinds a dynamic form understands.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeString   FieldType = "string"
	FieldTypeNumber   FieldType = "number"
	FieldTypePassword FieldType = "password"
	FieldTypeEmail    FieldType = "email"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeFile     FieldType = "file"
)

// FieldTypes lists every supported type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeString,
		FieldTypeNumber,
		FieldTypePassword,
		FieldTypeEmail,
		FieldTypeCheckbox,
		FieldTypeFile,
	}
}

// ParseFieldType normalises a declared type string. JSON Schema spellings
// "boolean" and "integer" map onto checkbox and number.
func ParseFieldType(raw string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text":
		return FieldTypeText, nil
	case "string":
		return FieldTypeString, nil
	case "number", "integer":
		return FieldTypeNumber, nil
	case "password":
		return FieldTypePassword, nil
	case "email":
		return FieldTypeEmail, nil
	case "checkbox", "boolean":
		return FieldTypeCheckbox, nil
	case "file":
		return FieldTypeFile, nil
	case "":
		return "", fmt.Errorf("schema: field type is required")
	default:
		return "", fmt.Errorf("schema: unsupported field type %q", raw)
	}
}

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	for _, candidate := range FieldTypes() {
		if t == candidate {
			return true
		}
	}
	return false
}

// StringLike reports whether values of this type are free text and therefore
// subject to length constraints.
func (t FieldType) StringLike() bool {
	switch t {
	case FieldTypeText, FieldTypeString, FieldTypePassword, FieldTypeEmail:
		return true
	case FieldTypeNumber, FieldTypeCheckbox, FieldTypeFile:
		return false
	default:
		return false
	}
}

// ZeroValue returns the value a field of this type holds before it receives
// any input.
func (t FieldType) ZeroValue() any {
	switch t {
	case FieldTypeCheckbox:
		return false
	case FieldTypeNumber:
		return nil
	case FieldTypeText, FieldTypeString, FieldTypePassword, FieldTypeEmail, FieldTypeFile:
		return ""
	default:
		return ""
	}
}

// FieldSchema is a single property declaration of a form configuration.
type FieldSchema struct {
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	Default    any       `json:"default,omitempty" yaml:"default,omitempty"`
	HasDefault bool      `json:"-" yaml:"-"`
	Required   bool      `json:"required" yaml:"required"`
	MinLength  int       `json:"minLength,omitempty" yaml:"minLength,omitempty"`
}

// Schema is the ordered list of field declarations. Order follows the source
// document (or an explicit `order` list when one is supplied).
type Schema struct {
	Fields []FieldSchema `json:"fields" yaml:"fields"`
}

// New builds a Schema after trimming names and checking names and types.
func New(fields ...FieldSchema) (Schema, error) {
	s := Schema{Fields: append([]FieldSchema(nil), fields...)}
	for i := range s.Fields {
		s.Fields[i].Name = strings.TrimSpace(s.Fields[i].Name)
	}
	if err := s.Check(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// MustNew panics when the schema is malformed. Useful for tests and fixtures.
func MustNew(fields ...FieldSchema) Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Check validates names, their uniqueness and field types. Names with
// surrounding whitespace are rejected; New and Parse trim them.
func (s Schema) Check() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return &SchemaError{Index: idx, Reason: ReasonEmptyName}
		}
		if name != field.Name {
			return &SchemaError{Field: name, Index: idx, Reason: ReasonMalformed, Detail: "name has surrounding whitespace"}
		}
		if _, exists := seen[name]; exists {
			return &SchemaError{Field: name, Index: idx, Reason: ReasonDuplicateName}
		}
		seen[name] = struct{}{}
		if !field.Type.Valid() {
			return &SchemaError{Field: name, Index: idx, Reason: ReasonUnknownType, Detail: string(field.Type)}
		}
	}
	return nil
}

// Field looks up a declaration by name.
func (s Schema) Field(name string) (FieldSchema, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	out := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Len reports the number of declared fields.
func (s Schema) Len() int {
	return len(s.Fields)
}
