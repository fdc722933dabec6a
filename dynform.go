// Package dynform renders and edits configuration objects through forms
// derived at runtime from a JSON or YAML schema.
package dynform

import (
	"context"

	"github.com/goliatone/go-dynform/internal/loader"
	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/orchestrator"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// Schema aliases schema.Schema for callers that only import the root package.
type Schema = schema.Schema

// Target is the object a form edits.
type Target = fields.Target

// Form is a mounted dynamic form.
type Form = form.Form

// Action is a named side effect exposed by a form.
type Action = form.Action

// RenderOptions describes per-request render overrides.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for partial rendering.
type FieldSubset = render.FieldSubset

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewLoader constructs the built-in document loader while keeping the
// concrete type hidden from consumers.
func NewLoader(options schema.LoaderOptions) schema.Loader {
	return loader.New(options)
}

// LoadSchema fetches and parses the native schema behind src.
func LoadSchema(ctx context.Context, src schema.Source, options schema.LoaderOptions) (Schema, error) {
	return schema.Load(ctx, loader.New(options), src)
}

// New mounts a form for target using s.
func New(s Schema, target Target, opts ...form.Option) (*Form, error) {
	return form.New(s, target, opts...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the schema behind source and renders an HTML form for
// target with the built-in renderer.
func GenerateHTML(ctx context.Context, source schema.Source, target Target, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source: source,
		Target: target,
	})
}
