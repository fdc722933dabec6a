package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// Built-in widget identifiers, one per field type.
const (
	WidgetTextInput     = "text-input"
	WidgetNumberInput   = "number-input"
	WidgetPasswordInput = "password-input"
	WidgetEmailInput    = "email-input"
	WidgetCheckbox      = "checkbox"
	WidgetFileInput     = "file-input"
)

// WidgetTextArea is a multi-line text widget. No field type maps to it; it is
// selected through Register or Override.
const WidgetTextArea = "textarea"

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field fields.Descriptor) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for field descriptors. Registered matchers are
// evaluated first, higher priority wins and ties fall back to registration
// order. When no matcher claims a field, the built-in widget for its type is
// used.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry that only knows the built-in widgets.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a widget matcher with the provided name and priority. Empty
// names and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Override pins a widget for one field name, ahead of every other matcher.
func (r *Registry) Override(fieldName, widget string) {
	r.Register(widget, int(^uint(0)>>1), func(field fields.Descriptor) bool {
		return field.Name == fieldName
	})
}

// Resolve returns the widget name for a field.
func (r *Registry) Resolve(field fields.Descriptor) (string, error) {
	if r != nil {
		r.mu.RLock()
		rules := append([]rule(nil), r.rules...)
		r.mu.RUnlock()

		sort.SliceStable(rules, func(i, j int) bool {
			if rules[i].priority == rules[j].priority {
				return rules[i].order < rules[j].order
			}
			return rules[i].priority > rules[j].priority
		})
		for _, entry := range rules {
			if entry.match(field) {
				return entry.name, nil
			}
		}
	}
	return ForType(field.Type)
}

// Assign resolves every descriptor and returns the widget names keyed by
// field name.
func (r *Registry) Assign(descriptors []fields.Descriptor) (map[string]string, error) {
	out := make(map[string]string, len(descriptors))
	for _, d := range descriptors {
		widget, err := r.Resolve(d)
		if err != nil {
			return nil, err
		}
		out[d.Name] = widget
	}
	return out, nil
}

// ForType maps a field type to its built-in widget.
func ForType(t schema.FieldType) (string, error) {
	switch t {
	case schema.FieldTypeText, schema.FieldTypeString:
		return WidgetTextInput, nil
	case schema.FieldTypeNumber:
		return WidgetNumberInput, nil
	case schema.FieldTypePassword:
		return WidgetPasswordInput, nil
	case schema.FieldTypeEmail:
		return WidgetEmailInput, nil
	case schema.FieldTypeCheckbox:
		return WidgetCheckbox, nil
	case schema.FieldTypeFile:
		return WidgetFileInput, nil
	default:
		return "", fmt.Errorf("widgets: no widget for field type %q", t)
	}
}
