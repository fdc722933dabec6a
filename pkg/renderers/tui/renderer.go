// Package tui fills a dynamic form interactively in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/widgets"
)

const actionsDone = "Done"

// Renderer implements render.Renderer for terminal sessions: it prompts for
// every field, re-prompting while the field has errors, then optionally saves
// and runs actions. The rendered bytes are the collected values.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	submit            bool
	actions           bool
	openFile          FileOpener
	logger            *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		openFile:     openFile,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if _, err := ParseOutputFormat(string(r.outputFormat)); err != nil {
		return nil, fmt.Errorf("%w: %q", err, r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs the interactive session against f.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("tui: form is required")
	}

	view, err := render.BuildView(f, opts)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	for _, message := range view.FormErrors {
		r.errorf(ctx, "%s", message)
	}

	for _, field := range view.Fields {
		if err := r.promptField(ctx, f, field, opts); err != nil {
			return nil, err
		}
	}

	if r.submit {
		if err := r.runSubmit(ctx, f); err != nil {
			return nil, err
		}
	}
	if r.actions {
		if err := r.runActions(ctx, f, opts); err != nil {
			return nil, err
		}
	}

	values := f.Values()
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field render.FieldView, opts render.RenderOptions) error {
	for _, message := range field.Errors {
		r.errorf(ctx, "%s: %s", field.Label, message)
	}

	for {
		state, err := r.askField(ctx, f, field)
		if err != nil {
			return err
		}
		if !state.HasErrors() {
			return nil
		}
		for _, message := range render.ErrorMessages(state.Errors, opts) {
			r.errorf(ctx, "%s: %s", field.Label, message)
		}
	}
}

func (r *Renderer) askField(ctx context.Context, f *form.Form, field render.FieldView) (form.FieldState, error) {
	help := fieldHelp(field)
	current := stringValue(field.Value)
	if state, ok := f.Field(field.Name); ok {
		current = stringValue(state.Value)
	}

	switch field.Widget {
	case widgets.WidgetCheckbox:
		checked, _ := currentBool(f, field.Name)
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{Message: field.Label, Default: checked, Help: help})
		if err != nil {
			return form.FieldState{}, err
		}
		return f.Update(field.Name, resp)

	case widgets.WidgetNumberInput:
		resp, err := r.driver.Input(ctx, InputConfig{Message: field.Label, Default: current, Help: help})
		if err != nil {
			return form.FieldState{}, err
		}
		return f.Update(field.Name, parseNumber(resp))

	case widgets.WidgetPasswordInput:
		resp, err := r.driver.Password(ctx, InputConfig{Message: field.Label, Help: help})
		if err != nil {
			return form.FieldState{}, err
		}
		if resp == "" && current != "" {
			// an empty answer keeps the stored secret
			resp = current
		}
		return f.Update(field.Name, resp)

	case widgets.WidgetFileInput:
		return r.askFile(ctx, f, field, help)

	case widgets.WidgetTextArea:
		resp, err := r.driver.TextArea(ctx, TextAreaConfig{Message: field.Label, Default: current, Help: help})
		if err != nil {
			return form.FieldState{}, err
		}
		return f.Update(field.Name, resp)

	default:
		resp, err := r.driver.Input(ctx, InputConfig{Message: field.Label, Default: current, Help: help})
		if err != nil {
			return form.FieldState{}, err
		}
		return f.Update(field.Name, resp)
	}
}

// askFile reads a path and stores the file content. An empty path keeps the
// current value.
func (r *Renderer) askFile(ctx context.Context, f *form.Form, field render.FieldView, help string) (form.FieldState, error) {
	for {
		path, err := r.driver.Input(ctx, InputConfig{Message: field.Label + " (path)", Help: help})
		if err != nil {
			return form.FieldState{}, err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			state, _ := f.Field(field.Name)
			return f.Update(field.Name, state.Value)
		}

		rc, err := r.openFile(path)
		if err != nil {
			r.errorf(ctx, "%s: %v", field.Label, err)
			continue
		}
		err = <-f.SetFile(ctx, field.Name, rc)
		_ = rc.Close()
		if err != nil {
			r.errorf(ctx, "%s: %v", field.Label, err)
			continue
		}
		state, _ := f.Field(field.Name)
		return state, nil
	}
}

func (r *Renderer) runSubmit(ctx context.Context, f *form.Form) error {
	outcome, err := f.Submit(ctx)
	if err != nil {
		return fmt.Errorf("tui: submit: %w", err)
	}
	r.logger.Debug("tui submission finished", zap.String("outcome", string(outcome)))
	if outcome == form.OutcomeInvalid {
		state := f.State()
		for _, name := range state.Order {
			for _, message := range state.Fields[name].Errors.Messages() {
				r.errorf(ctx, "%s: %s", name, message)
			}
		}
	}
	return nil
}

// runActions offers the enabled actions until the user picks Done.
func (r *Renderer) runActions(ctx context.Context, f *form.Form, opts render.RenderOptions) error {
	for {
		view, err := render.BuildView(f, opts)
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if !view.ActionsVisible {
			return nil
		}

		options := []string{actionsDone}
		names := []string{""}
		for _, action := range view.Actions {
			if action.Enabled {
				options = append(options, action.Label)
				names = append(names, action.Name)
			}
		}
		if len(options) == 1 {
			return nil
		}

		idx, err := r.driver.Select(ctx, SelectConfig{Message: "Run an action", Options: options, DefaultIndex: 0})
		if err != nil {
			return err
		}
		if idx <= 0 || idx >= len(names) {
			return nil
		}

		done, ok := f.Trigger(ctx, names[idx])
		if !ok {
			r.errorf(ctx, "%s is not available", options[idx])
			continue
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		r.infof(ctx, "%s finished", options[idx])
	}
}

func (r *Renderer) infof(ctx context.Context, format string, args ...any) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func fieldHelp(field render.FieldView) string {
	var parts []string
	if field.Required {
		parts = append(parts, "required")
	}
	if field.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("at least %d characters", field.MinLength))
	}
	if field.Placeholder != "" {
		parts = append(parts, "e.g. "+field.Placeholder)
	}
	return strings.Join(parts, ", ")
}

func currentBool(f *form.Form, name string) (bool, bool) {
	state, ok := f.Field(name)
	if !ok {
		return false, false
	}
	b, ok := state.Value.(bool)
	return b, ok
}

// parseNumber keeps unparsable input as text so validation can flag it.
func parseNumber(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if fl, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return fl
	}
	return raw
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for _, key := range sortedKeys(values) {
		flattened.Set(key, stringValue(values[key]))
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		fmt.Fprintf(&b, "%s=%s\n", key, stringValue(values[key]))
	}
	return b.String()
}
