package render

import (
	"strings"

	"github.com/goliatone/go-dynform/pkg/fields"
)

// FieldSubset limits which fields are rendered. Only keeps the listed names,
// Exclude drops names. The implicit name field is always kept so a subset
// cannot hide the one field every form requires.
type FieldSubset struct {
	Only    []string
	Exclude []string
}

func (s FieldSubset) empty() bool {
	return len(s.Only) == 0 && len(s.Exclude) == 0
}

// Apply filters descriptors, preserving their order.
func (s FieldSubset) Apply(descriptors []fields.Descriptor) []fields.Descriptor {
	if s.empty() {
		return descriptors
	}
	only := toSet(s.Only)
	exclude := toSet(s.Exclude)

	out := make([]fields.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Name != fields.NameField {
			if _, skip := exclude[d.Name]; skip {
				continue
			}
			if len(only) > 0 {
				if _, keep := only[d.Name]; !keep {
					continue
				}
			}
		}
		out = append(out, d)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out[trimmed] = struct{}{}
		}
	}
	return out
}
