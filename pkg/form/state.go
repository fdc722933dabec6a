package form

import (
	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/validation"
)

// FieldState is the value and validation result of one field.
type FieldState struct {
	Value   any                 `json:"value"`
	Errors  validation.ErrorSet `json:"errors"`
	Touched bool                `json:"touched"`
}

// HasErrors reports whether the last validation of the field failed.
func (s FieldState) HasErrors() bool {
	return s.Errors.HasErrors()
}

// Fields is an immutable, ordered snapshot of field states. Methods that
// change state return a new snapshot and leave the receiver untouched.
type Fields struct {
	order  []string
	states map[string]FieldState
}

// NewFields seeds a snapshot from descriptors: value = InitialValue, no
// errors, not touched.
func NewFields(descriptors []fields.Descriptor) Fields {
	f := Fields{
		order:  make([]string, 0, len(descriptors)),
		states: make(map[string]FieldState, len(descriptors)),
	}
	for _, d := range descriptors {
		f.order = append(f.order, d.Name)
		f.states[d.Name] = FieldState{Value: d.InitialValue}
	}
	return f
}

// Get returns the state stored under name.
func (f Fields) Get(name string) (FieldState, bool) {
	s, ok := f.states[name]
	return s, ok
}

// Names returns field names in form order.
func (f Fields) Names() []string {
	return append([]string(nil), f.order...)
}

// Len reports the number of fields.
func (f Fields) Len() int {
	return len(f.order)
}

// Apply validates value against d and returns a snapshot where the field
// holds {value, errors, touched: true}.
func (f Fields) Apply(d fields.Descriptor, value any) Fields {
	errs := validation.Validate(d.Type, value, constraintsFor(d))
	return f.with(d.Name, FieldState{Value: value, Errors: errs, Touched: true})
}

// Revalidate recomputes the errors of d's field without marking it touched.
func (f Fields) Revalidate(d fields.Descriptor) Fields {
	current := f.states[d.Name]
	current.Errors = validation.Validate(d.Type, current.Value, constraintsFor(d))
	return f.with(d.Name, current)
}

// Clean returns a snapshot with every touched flag cleared.
func (f Fields) Clean() Fields {
	out := f.clone()
	for name, s := range out.states {
		s.Touched = false
		out.states[name] = s
	}
	return out
}

// Valid is true when no field has errors. Every field is inspected.
func (f Fields) Valid() bool {
	valid := true
	for _, name := range f.order {
		if f.states[name].HasErrors() {
			valid = false
		}
	}
	return valid
}

// Invalid returns the error sets of the fields that failed validation.
func (f Fields) Invalid() map[string]validation.ErrorSet {
	out := make(map[string]validation.ErrorSet)
	for _, name := range f.order {
		if s := f.states[name]; s.HasErrors() {
			out[name] = s.Errors
		}
	}
	return out
}

// Touched is true when any field was edited since the last clean.
func (f Fields) Touched() bool {
	for _, s := range f.states {
		if s.Touched {
			return true
		}
	}
	return false
}

// Values returns a name to value map.
func (f Fields) Values() map[string]any {
	out := make(map[string]any, len(f.states))
	for name, s := range f.states {
		out[name] = s.Value
	}
	return out
}

// States returns a copy of the name to state map.
func (f Fields) States() map[string]FieldState {
	out := make(map[string]FieldState, len(f.states))
	for name, s := range f.states {
		out[name] = s
	}
	return out
}

func (f Fields) with(name string, state FieldState) Fields {
	out := f.clone()
	if _, exists := out.states[name]; !exists {
		out.order = append(out.order, name)
	}
	out.states[name] = state
	return out
}

func (f Fields) clone() Fields {
	out := Fields{
		order:  append([]string(nil), f.order...),
		states: make(map[string]FieldState, len(f.states)),
	}
	for name, s := range f.states {
		out.states[name] = s
	}
	return out
}

func constraintsFor(d fields.Descriptor) validation.Constraints {
	return validation.Constraints{Required: d.Required, MinLength: d.MinLength}
}

// FormState is a point-in-time view of the whole form.
type FormState struct {
	Fields            map[string]FieldState `json:"fields"`
	Order             []string              `json:"order"`
	Submitting        bool                  `json:"isSubmitting"`
	InProgressActions map[string]bool       `json:"inProgressActions"`
}
