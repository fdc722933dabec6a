package openapi

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getkin/kin-openapi/openapi3"
)

// propertyOrder walks the raw document along path and returns the keys of the
// "properties" mapping found there, in document order. kin-openapi keeps
// properties in a map, so the order has to come from the source text. A $ref
// to a local component is followed.
func propertyOrder(raw []byte, path ...string) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("openapi: parse document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]

	node := walk(doc, path...)
	for hops := 0; node != nil && hops < 8; hops++ {
		ref := mappingValue(node, "$ref")
		if ref == nil {
			break
		}
		component, ok := strings.CutPrefix(ref.Value, componentRefPrefix)
		if !ok {
			break
		}
		node = walk(doc, "components", "schemas", component)
	}

	props := mappingValue(node, "properties")
	if props == nil || props.Kind != yaml.MappingNode {
		return nil, nil
	}
	keys := make([]string, 0, len(props.Content)/2)
	for i := 0; i+1 < len(props.Content); i += 2 {
		keys = append(keys, props.Content[i].Value)
	}
	return keys, nil
}

func walk(node *yaml.Node, path ...string) *yaml.Node {
	for _, key := range path {
		node = mappingValue(node, key)
		if node == nil {
			return nil
		}
	}
	return node
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

// orderedNames lists the property names following order, then any names the
// order missed, sorted.
func orderedNames(props openapi3.Schemas, order []string) []string {
	out := make([]string, 0, len(props))
	seen := make(map[string]struct{}, len(props))
	for _, name := range order {
		if _, ok := props[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	var rest []string
	for name := range props {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
