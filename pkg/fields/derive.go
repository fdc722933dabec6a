package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-dynform/pkg/schema"
)

// Option customises derivation.
type Option func(*config)

type config struct {
	labeler func(string) string
}

// WithLabeler replaces DefaultLabeler for fields without a title.
func WithLabeler(fn func(string) string) Option {
	return func(c *config) {
		if fn != nil {
			c.labeler = fn
		}
	}
}

// Derive builds one descriptor per schema entry, in schema order. The initial
// value comes from values, then the schema default, then the type's zero
// value. Empty or duplicated names fail with *schema.SchemaError.
func Derive(s schema.Schema, values map[string]any, opts ...Option) ([]Descriptor, error) {
	cfg := newConfig(opts)
	if err := s.Check(); err != nil {
		return nil, err
	}

	out := make([]Descriptor, 0, len(s.Fields))
	for _, field := range s.Fields {
		out = append(out, describe(field, values, cfg))
	}
	return out, nil
}

// DeriveForm is Derive for a whole form: the implicit, always required name
// descriptor comes first and takes its value from target.Name. A schema entry
// named "name" only contributes its title, default and minLength to it.
func DeriveForm(s schema.Schema, target Target, opts ...Option) ([]Descriptor, error) {
	cfg := newConfig(opts)
	if err := s.Check(); err != nil {
		return nil, err
	}

	nameSchema := schema.FieldSchema{Name: NameField, Type: schema.FieldTypeText, Title: "Name"}
	rest := make([]schema.FieldSchema, 0, len(s.Fields))
	for _, field := range s.Fields {
		if field.Name != NameField {
			rest = append(rest, field)
			continue
		}
		if field.Title != "" {
			nameSchema.Title = field.Title
		}
		nameSchema.Default, nameSchema.HasDefault = field.Default, field.HasDefault
		nameSchema.MinLength = field.MinLength
	}
	nameSchema.Required = true

	var nameValues map[string]any
	if target.Name != "" {
		nameValues = map[string]any{NameField: target.Name}
	}

	out := make([]Descriptor, 0, len(rest)+1)
	out = append(out, describe(nameSchema, nameValues, cfg))
	for _, field := range rest {
		out = append(out, describe(field, target.Values, cfg))
	}
	return out, nil
}

func newConfig(opts []Option) *config {
	cfg := &config{labeler: DefaultLabeler}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func describe(field schema.FieldSchema, values map[string]any, cfg *config) Descriptor {
	label := strings.TrimSpace(field.Title)
	if label == "" {
		label = cfg.labeler(field.Name)
	}

	initial := field.Type.ZeroValue()
	if field.HasDefault {
		initial = field.Default
	}
	if value, ok := values[field.Name]; ok {
		initial = value
	}

	return Descriptor{
		Name:         field.Name,
		Type:         field.Type,
		Label:        label,
		InitialValue: initial,
		Required:     field.Required,
		MinLength:    field.MinLength,
		Placeholder:  placeholder(field),
	}
}

func placeholder(field schema.FieldSchema) string {
	if !field.HasDefault || field.Default == nil {
		return ""
	}
	if field.Type == schema.FieldTypeCheckbox || field.Type == schema.FieldTypeFile {
		return ""
	}
	return fmt.Sprint(field.Default)
}
