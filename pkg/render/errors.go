package render

import (
	"strings"
)

// ErrorMapping splits a server error payload into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload assigns each payload entry to a known field. Keys may be
// plain names or JSON pointers ("/email", "#/values/email"); the last segment
// that names a field wins. Anything else is a form-level error.
func MapErrorPayload(known []string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}
	names := toSet(known)

	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		field := matchField(raw, names)
		if field == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field] = append(mapping.Fields[field], messages...)
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(raw string, names map[string]struct{}) string {
	segments := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '.' || r == '#' || r == '$'
	})
	for i := len(segments) - 1; i >= 0; i-- {
		segment := strings.ReplaceAll(strings.TrimSpace(segments[i]), "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if _, ok := names[segment]; ok {
			return segment
		}
	}
	return ""
}

// normalizeMessages trims messages and drops blanks and duplicates, keeping
// order.
func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
