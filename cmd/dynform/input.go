package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/orchestrator"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// inputFlags are shared by every command that mounts a form.
type inputFlags struct {
	schemaPath string
	component  string
	operation  string
	targetPath string
	set        []string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&in.schemaPath, "schema", "s", "", "Schema document path or http(s) URL")
	flags.StringVar(&in.component, "component", "", "OpenAPI components/schemas entry to use")
	flags.StringVar(&in.operation, "operation", "", "OpenAPI operation ID whose JSON request body to use")
	flags.StringVarP(&in.targetPath, "target", "t", "", "Target document ({id, name, options}) in JSON or YAML")
	flags.StringArrayVar(&in.set, "set", nil, "Field assignment applied after mounting (name=value, repeatable)")
	_ = cmd.MarkFlagRequired("schema")
	cmd.MarkFlagsMutuallyExclusive("component", "operation")
}

func (in *inputFlags) request() (orchestrator.Request, error) {
	src, err := schema.ParseSource(in.schemaPath)
	if err != nil {
		return orchestrator.Request{}, err
	}
	target, err := loadTarget(in.targetPath)
	if err != nil {
		return orchestrator.Request{}, err
	}
	return orchestrator.Request{
		Source:      src,
		Component:   in.component,
		OperationID: in.operation,
		Target:      target,
	}, nil
}

// build mounts the form and applies --set assignments in order.
func (in *inputFlags) build(ctx context.Context, a *app, opts ...form.Option) (*form.Form, *orchestrator.Orchestrator, error) {
	req, err := in.request()
	if err != nil {
		return nil, nil, err
	}
	req.FormOptions = opts

	gen := a.orchestrator()
	f, err := gen.Build(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	for _, assignment := range in.set {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, nil, fmt.Errorf("invalid --set %q, expected name=value", assignment)
		}
		d, ok := f.Descriptor(name)
		if !ok {
			return nil, nil, fmt.Errorf("--set %q: %w", name, form.ErrUnknownField)
		}
		if _, err := f.Update(name, coerce(d.Type, value)); err != nil {
			return nil, nil, err
		}
	}
	return f, gen, nil
}

// targetDocument accepts both "options" and "values" for the field values.
type targetDocument struct {
	ID      any            `yaml:"id"`
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
	Values  map[string]any `yaml:"values"`
}

func loadTarget(path string) (fields.Target, error) {
	if strings.TrimSpace(path) == "" {
		return fields.Target{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fields.Target{}, fmt.Errorf("read target: %w", err)
	}
	return parseTarget(raw)
}

func parseTarget(raw []byte) (fields.Target, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return fields.Target{}, errors.New("target document is empty")
	}
	var doc targetDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fields.Target{}, fmt.Errorf("parse target: %w", err)
	}

	values := doc.Options
	if values == nil {
		values = doc.Values
	}
	target := fields.Target{Name: doc.Name, Values: values}
	if doc.ID != nil {
		target.ID = fmt.Sprint(doc.ID)
	}
	return target, nil
}

func coerce(typ schema.FieldType, raw string) any {
	switch typ {
	case schema.FieldTypeCheckbox:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes", "on":
			return true
		default:
			return false
		}
	case schema.FieldTypeNumber:
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(raw), &node); err == nil && len(node.Content) == 1 {
			var n float64
			if node.Content[0].Tag == "!!int" || node.Content[0].Tag == "!!float" {
				if err := node.Content[0].Decode(&n); err == nil {
					return n
				}
			}
		}
		return raw
	default:
		return raw
	}
}
