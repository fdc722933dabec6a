package render

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/validation"
)

// FieldView is everything a renderer needs to draw one input.
type FieldView struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Widget      string   `json:"widget"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Value       any      `json:"value"`
	Required    bool     `json:"required"`
	MinLength   int      `json:"minLength,omitempty"`
	Touched     bool     `json:"touched"`
	Errors      []string `json:"errors,omitempty"`
}

// ActionView is one action button.
type ActionView struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Class      string `json:"class,omitempty"`
	Enabled    bool   `json:"enabled"`
	InProgress bool   `json:"inProgress"`
}

// FormView is the renderer-agnostic projection of a form at one instant.
type FormView struct {
	Action         string        `json:"action,omitempty"`
	Method         string        `json:"method"`
	TargetID       string        `json:"targetId,omitempty"`
	Fields         []FieldView   `json:"fields"`
	FormErrors     []string      `json:"formErrors,omitempty"`
	Hidden         []HiddenField `json:"hidden,omitempty"`
	SubmitLabel    string        `json:"submitLabel"`
	SubmitEnabled  bool          `json:"submitEnabled"`
	Submitting     bool          `json:"submitting"`
	ActionsVisible bool          `json:"actionsVisible"`
	Actions        []ActionView  `json:"actions,omitempty"`
}

// BuildView snapshots f into a FormView. Only fields with errors carry
// messages, server errors from options are appended to them.
func BuildView(f *form.Form, options RenderOptions) (FormView, error) {
	if f == nil {
		return FormView{}, fmt.Errorf("render: form is required")
	}

	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = http.MethodPost
	}

	state := f.State()
	descriptors := options.Subset.Apply(f.Descriptors())
	server := MapErrorPayload(state.Order, options.Errors)

	view := FormView{
		Action:         options.Action,
		Method:         method,
		TargetID:       f.Target().ID,
		Fields:         make([]FieldView, 0, len(descriptors)),
		FormErrors:     server.Form,
		Hidden:         SortedHiddenFields(options.Hidden),
		Submitting:     state.Submitting,
		SubmitEnabled:  f.SubmitEnabled(),
		ActionsVisible: f.ActionsVisible(),
	}
	view.SubmitLabel = options.Localize(KeySubmit, "Save")
	if view.Submitting {
		view.SubmitLabel = options.Localize(KeySubmitting, "Saving...")
	}

	for _, d := range descriptors {
		fv, err := buildField(d, state.Fields[d.Name], options)
		if err != nil {
			return FormView{}, err
		}
		fv.Errors = append(fv.Errors, server.Fields[d.Name]...)
		view.Fields = append(view.Fields, fv)
	}

	if view.ActionsVisible {
		for _, action := range f.Actions() {
			view.Actions = append(view.Actions, ActionView{
				Name:       action.Name,
				Label:      options.Localize(ActionLabelKey(action.Name), fields.DefaultLabeler(action.Name)),
				Class:      action.Class,
				Enabled:    f.ActionEnabled(action.Name),
				InProgress: state.InProgressActions[action.Name],
			})
		}
	}
	return view, nil
}

func buildField(d fields.Descriptor, state form.FieldState, options RenderOptions) (FieldView, error) {
	widget, err := options.Widgets.Resolve(d)
	if err != nil {
		return FieldView{}, err
	}
	return FieldView{
		Name:        d.Name,
		Type:        string(d.Type),
		Widget:      widget,
		Label:       options.Localize(FieldLabelKey(d.Name), d.Label),
		Placeholder: d.Placeholder,
		Value:       state.Value,
		Required:    d.Required,
		MinLength:   d.MinLength,
		Touched:     state.Touched,
		Errors:      ErrorMessages(state.Errors, options),
	}, nil
}

// ErrorMessages localises the inline messages of the failed checks.
func ErrorMessages(errs validation.ErrorSet, options RenderOptions) []string {
	var out []string
	if errs.Required {
		out = append(out, options.Localize(KeyRequired, validation.MessageRequired))
	}
	if errs.MinLength {
		out = append(out, options.Localize(KeyMinLength, validation.MessageMinLength))
	}
	if errs.Email {
		out = append(out, options.Localize(KeyEmail, validation.MessageEmail))
	}
	if errs.Number {
		out = append(out, options.Localize(KeyNumber, validation.MessageNumber))
	}
	return out
}
