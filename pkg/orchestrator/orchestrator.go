package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/internal/loader"
	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/openapi"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/html"
	"github.com/goliatone/go-dynform/pkg/schema"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(l schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithImporter injects a custom OpenAPI importer.
func WithImporter(importer *openapi.Importer) Option {
	return func(o *Orchestrator) {
		o.importer = importer
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithFormOptions appends form options applied to every built form.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// WithLogger sets the logger shared with the default importer and forms.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from a schema document to a mounted
// form and its rendered output. Missing dependencies fall back to the
// built-in implementations.
type Orchestrator struct {
	loader          schema.Loader
	importer        *openapi.Importer
	registry        *render.Registry
	defaultRenderer string
	formOptions     []form.Option
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs needed to mount and render one form.
type Request struct {
	// Source identifies where the schema document lives. Optional when
	// Document is supplied.
	Source schema.Source

	// Document bypasses the loader when the payload is already in memory.
	Document *schema.Document

	// Component selects a components/schemas entry of an OpenAPI document.
	Component string

	// OperationID selects the JSON request body of an OpenAPI operation.
	// When neither Component nor OperationID is set the document is read as a
	// native configuration schema.
	OperationID string

	// Target is the object being edited.
	Target fields.Target

	// FormOptions apply to this request only, after the orchestrator's own.
	FormOptions []form.Option

	// Renderer names the renderer to use; empty selects the default.
	Renderer string

	// RenderOptions carries per-request render instructions.
	RenderOptions render.RenderOptions
}

// Schema resolves the request's document into a Schema.
func (o *Orchestrator) Schema(ctx context.Context, req Request) (schema.Schema, error) {
	if ctx == nil {
		return schema.Schema{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	if err := o.initialiseErr; err != nil {
		return schema.Schema{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return schema.Schema{}, err
	}

	switch {
	case req.Component != "" && req.OperationID != "":
		return schema.Schema{}, errors.New("orchestrator: component and operation id are mutually exclusive")
	case req.Component != "":
		s, err := o.importer.Component(ctx, doc, req.Component)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("orchestrator: import component: %w", err)
		}
		return s, nil
	case req.OperationID != "":
		s, err := o.importer.Operation(ctx, doc, req.OperationID)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("orchestrator: import operation: %w", err)
		}
		return s, nil
	default:
		return schema.Parse(doc)
	}
}

// Build resolves the schema and mounts a form for req.Target.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*form.Form, error) {
	s, err := o.Schema(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := make([]form.Option, 0, len(o.formOptions)+len(req.FormOptions)+1)
	opts = append(opts, form.WithLogger(o.logger))
	opts = append(opts, o.formOptions...)
	opts = append(opts, req.FormOptions...)

	f, err := form.New(s, req.Target, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build form: %w", err)
	}
	return f, nil
}

// Render renders an already mounted form with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, f *form.Form, name string, options render.RenderOptions) ([]byte, error) {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, f, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Generate executes the load, schema, form and render sequence and returns the
// rendered bytes (HTML for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	f, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, f, req.Renderer, req.RenderOptions)
}

// Registry exposes the renderer registry so callers can add renderers.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = loader.New(schema.LoaderOptions{})
	}
	if o.importer == nil {
		o.importer = openapi.NewImporter(openapi.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
