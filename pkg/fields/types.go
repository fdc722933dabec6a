// Package fields derives render-ready field descriptors from a form schema
// and the current values of the object being edited.
package fields

import "github.com/goliatone/go-dynform/pkg/schema"

// NameField is the implicit field every dynamic form carries first.
const NameField = "name"

// Descriptor is the derived, render-ready view of one schema property.
type Descriptor struct {
	Name         string           `json:"name" yaml:"name"`
	Type         schema.FieldType `json:"type" yaml:"type"`
	Label        string           `json:"label" yaml:"label"`
	InitialValue any              `json:"initialValue" yaml:"initialValue"`
	Required     bool             `json:"required" yaml:"required"`
	MinLength    int              `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	Placeholder  string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Target is the object a form edits. An empty ID means the object has not
// been persisted yet.
type Target struct {
	ID     string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string         `json:"name,omitempty" yaml:"name,omitempty"`
	Values map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Persisted reports whether the target already has an identity.
func (t Target) Persisted() bool {
	return t.ID != ""
}
