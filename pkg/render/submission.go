package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken is a hidden field carrying a CSRF token under the given input
// name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// TargetIDField carries the id of the edited target so a backend can tell
// create from update.
func TargetIDField(id string) HiddenField {
	return Hidden("id", id)
}

// WithHidden returns a copy of o with fields merged into its hidden inputs.
// Later fields win on name collisions; empty names are dropped.
func (o RenderOptions) WithHidden(fields ...HiddenField) RenderOptions {
	merged := make(map[string]string, len(o.Hidden)+len(fields))
	for key, value := range o.Hidden {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			merged[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		merged[field.Name] = field.Value
	}
	o.Hidden = merged
	return o
}

// SortedHiddenFields returns hidden inputs sorted by name for deterministic
// output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return out
}
