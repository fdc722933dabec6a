package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/schema"
)

const componentRefPrefix = "#/components/schemas/"

// ErrNotFound is returned when the requested component or operation does not
// exist in the document.
var ErrNotFound = errors.New("openapi: not found")

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the importer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithExternalRefs allows the loader to resolve references outside the
// document.
func WithExternalRefs(allowed bool) Option {
	return func(i *Importer) {
		i.externalRefs = allowed
	}
}

// Importer converts OpenAPI schemas into form schemas.
type Importer struct {
	logger       *zap.Logger
	externalRefs bool
}

// NewImporter constructs an Importer.
func NewImporter(opts ...Option) *Importer {
	i := &Importer{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Component builds a form schema from components.schemas.<name>.
func (i *Importer) Component(ctx context.Context, doc schema.Document, name string) (schema.Schema, error) {
	spec, err := i.load(ctx, doc)
	if err != nil {
		return schema.Schema{}, err
	}
	if spec.Components == nil {
		return schema.Schema{}, fmt.Errorf("%w: component %q", ErrNotFound, name)
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return schema.Schema{}, fmt.Errorf("%w: component %q", ErrNotFound, name)
	}

	order, err := propertyOrder(doc.Raw(), "components", "schemas", name)
	if err != nil {
		return schema.Schema{}, err
	}
	return i.convert(ref.Value, order)
}

// Operation builds a form schema from the application/json request body of
// the operation with the given operationId.
func (i *Importer) Operation(ctx context.Context, doc schema.Document, operationID string) (schema.Schema, error) {
	spec, err := i.load(ctx, doc)
	if err != nil {
		return schema.Schema{}, err
	}

	path, method, op := findOperation(spec, operationID)
	if op == nil {
		return schema.Schema{}, fmt.Errorf("%w: operation %q", ErrNotFound, operationID)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q has no request body", operationID)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q has no JSON request schema", operationID)
	}

	var order []string
	if component, ok := strings.CutPrefix(media.Schema.Ref, componentRefPrefix); ok {
		order, err = propertyOrder(doc.Raw(), "components", "schemas", component)
	} else {
		order, err = propertyOrder(doc.Raw(), "paths", path, strings.ToLower(method),
			"requestBody", "content", "application/json", "schema")
	}
	if err != nil {
		return schema.Schema{}, err
	}
	return i.convert(media.Schema.Value, order)
}

func (i *Importer) load(ctx context.Context, doc schema.Document) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.externalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return spec, nil
}

func (i *Importer) convert(src *openapi3.Schema, order []string) (schema.Schema, error) {
	if src.Type != nil && !src.Type.Is(openapi3.TypeObject) {
		return schema.Schema{}, fmt.Errorf("openapi: expected an object schema, got %v", src.Type.Slice())
	}
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	out := make([]schema.FieldSchema, 0, len(src.Properties))
	for _, name := range orderedNames(src.Properties, order) {
		prop := src.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		typ, ok := fieldType(prop.Value)
		if !ok {
			i.logger.Debug("openapi property skipped",
				zap.String("property", name),
				zap.Strings("type", typeNames(prop.Value)),
			)
			continue
		}
		_, isRequired := required[name]
		field := schema.FieldSchema{
			Name:      name,
			Type:      typ,
			Title:     prop.Value.Title,
			Required:  isRequired,
			MinLength: int(prop.Value.MinLength),
		}
		if prop.Value.Default != nil {
			field.Default, field.HasDefault = prop.Value.Default, true
		}
		out = append(out, field)
	}
	return schema.New(out...)
}

// fieldType maps an OpenAPI type and format onto a form field type.
func fieldType(s *openapi3.Schema) (schema.FieldType, bool) {
	switch {
	case s.Type == nil:
		return "", false
	case s.Type.Is(openapi3.TypeBoolean):
		return schema.FieldTypeCheckbox, true
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		return schema.FieldTypeNumber, true
	case s.Type.Is(openapi3.TypeString):
		switch strings.ToLower(s.Format) {
		case "email", "idn-email":
			return schema.FieldTypeEmail, true
		case "password":
			return schema.FieldTypePassword, true
		case "binary", "byte":
			return schema.FieldTypeFile, true
		default:
			return schema.FieldTypeText, true
		}
	default:
		return "", false
	}
}

func typeNames(s *openapi3.Schema) []string {
	if s.Type == nil {
		return nil
	}
	return s.Type.Slice()
}

func findOperation(spec *openapi3.T, operationID string) (string, string, *openapi3.Operation) {
	if spec.Paths == nil {
		return "", "", nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return path, method, op
			}
		}
	}
	return "", "", nil
}
