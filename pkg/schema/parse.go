package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse converts a configuration document into an ordered Schema. JSON and
// YAML payloads are both accepted; key order in the document is preserved.
//
// Three layouts are recognised:
//
//	{"configuration_schema": {...}}                      wrapper, unwrapped first
//	{"type": "object", "properties": {...}, "required": [...], "order": [...]}
//	{"host": {"type": "string"}, "port": {"type": "number"}}
func Parse(doc Document) (Schema, error) {
	s, err := ParseBytes(doc.Raw())
	if err != nil {
		if loc := doc.Location(); loc != "" {
			return Schema{}, fmt.Errorf("%w (source %s)", err, loc)
		}
		return Schema{}, err
	}
	return s, nil
}

// ParseBytes is Parse for callers holding the raw payload.
func ParseBytes(raw []byte) (Schema, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Schema{}, ErrEmptyDocument
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Schema{}, fmt.Errorf("schema: parse document: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return Schema{}, &SchemaError{Index: -1, Reason: ReasonMalformed, Detail: "document root must be a mapping"}
	}

	if wrapped := mappingValue(node, "configuration_schema"); wrapped != nil && wrapped.Kind == yaml.MappingNode {
		node = wrapped
	}

	properties := node
	var requiredList, order []string
	if isObjectSchema(node) {
		properties = mappingValue(node, "properties")
		requiredList = scalarList(mappingValue(node, "required"))
		order = scalarList(mappingValue(node, "order"))
	}
	if properties == nil {
		return Schema{}, nil
	}

	fields, err := parseProperties(properties, toSet(requiredList))
	if err != nil {
		return Schema{}, err
	}

	s := Schema{Fields: applyOrder(fields, order)}
	if err := s.Check(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

func isObjectSchema(node *yaml.Node) bool {
	props := mappingValue(node, "properties")
	if props == nil || props.Kind != yaml.MappingNode {
		return false
	}
	if typ := mappingValue(node, "type"); typ != nil && typ.Kind == yaml.ScalarNode {
		return strings.EqualFold(typ.Value, "object")
	}
	if req := mappingValue(node, "required"); req != nil && req.Kind == yaml.SequenceNode {
		return true
	}
	if ord := mappingValue(node, "order"); ord != nil && ord.Kind == yaml.SequenceNode {
		return true
	}
	// a lone "properties" key whose value is not itself a field definition
	return mappingValue(props, "type") == nil
}

func parseProperties(node *yaml.Node, required map[string]struct{}) ([]FieldSchema, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &SchemaError{Index: -1, Reason: ReasonMalformed, Detail: "properties must be a mapping"}
	}

	fields := make([]FieldSchema, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		idx := i / 2
		name := strings.TrimSpace(node.Content[i].Value)
		if name == "" {
			return nil, &SchemaError{Index: idx, Reason: ReasonEmptyName}
		}
		if _, exists := seen[name]; exists {
			return nil, &SchemaError{Field: name, Index: idx, Reason: ReasonDuplicateName}
		}
		seen[name] = struct{}{}

		field, err := parseProperty(name, idx, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		if _, ok := required[name]; ok {
			field.Required = true
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func parseProperty(name string, idx int, node *yaml.Node) (FieldSchema, error) {
	field := FieldSchema{Name: name}
	if node.Kind != yaml.MappingNode {
		return field, &SchemaError{Field: name, Index: idx, Reason: ReasonMalformed, Detail: "property must be a mapping"}
	}

	var rawType string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		switch key {
		case "type":
			rawType = value.Value
		case "title":
			field.Title = strings.TrimSpace(value.Value)
		case "default":
			var def any
			if err := value.Decode(&def); err != nil {
				return field, &SchemaError{Field: name, Index: idx, Reason: ReasonMalformed, Detail: "default: " + err.Error()}
			}
			field.Default = def
			field.HasDefault = true
		case "required":
			var required bool
			if value.Kind == yaml.ScalarNode && value.Decode(&required) == nil {
				field.Required = required
			}
		case "minLength", "min_length", "minlength":
			var minLength int
			if err := value.Decode(&minLength); err != nil || minLength < 0 {
				return field, &SchemaError{Field: name, Index: idx, Reason: ReasonMalformed, Detail: "minLength must be a non-negative integer"}
			}
			field.MinLength = minLength
		}
	}

	typ, err := ParseFieldType(rawType)
	if err != nil {
		return field, &SchemaError{Field: name, Index: idx, Reason: ReasonUnknownType, Detail: rawType}
	}
	field.Type = typ
	return field, nil
}

// applyOrder moves the names listed in order to the front, keeping document
// order for everything else. Unknown names are ignored.
func applyOrder(fields []FieldSchema, order []string) []FieldSchema {
	if len(order) == 0 {
		return fields
	}
	byName := make(map[string]int, len(fields))
	for idx, field := range fields {
		byName[field.Name] = idx
	}
	out := make([]FieldSchema, 0, len(fields))
	placed := make(map[string]struct{}, len(order))
	for _, name := range order {
		idx, ok := byName[name]
		if !ok {
			continue
		}
		if _, dup := placed[name]; dup {
			continue
		}
		placed[name] = struct{}{}
		out = append(out, fields[idx])
	}
	for _, field := range fields {
		if _, ok := placed[field.Name]; ok {
			continue
		}
		out = append(out, field)
	}
	return out
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func scalarList(node *yaml.Node) []string {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			continue
		}
		if value := strings.TrimSpace(item.Value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		out[value] = struct{}{}
	}
	return out
}
