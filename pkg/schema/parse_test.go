package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBytes_DirectMappingKeepsOrder(t *testing.T) {
	raw := []byte(`{"zeta": {"type": "string", "title": "Zeta Host"}, "alpha": {"type": "number", "default": 0}, "use_ssl": {"type": "checkbox", "required": true}}`)

	got, err := ParseBytes(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []FieldSchema{
		{Name: "zeta", Type: FieldTypeString, Title: "Zeta Host"},
		{Name: "alpha", Type: FieldTypeNumber, Default: 0, HasDefault: true},
		{Name: "use_ssl", Type: FieldTypeCheckbox, Required: true},
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes_ObjectSchemaWithRequiredAndOrder(t *testing.T) {
	raw := []byte(`
configuration_schema:
  type: object
  properties:
    dbname:
      type: string
    host:
      type: string
      minLength: 3
    password:
      type: password
    port:
      type: integer
  required: [dbname]
  order: [host, port]
`)

	got, err := ParseBytes(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"host", "port", "dbname", "password"}, got.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	db, _ := got.Field("dbname")
	if !db.Required {
		t.Fatalf("expected dbname to be required via required list")
	}
	host, _ := got.Field("host")
	if host.MinLength != 3 {
		t.Fatalf("expected minLength 3, got %d", host.MinLength)
	}
	port, _ := got.Field("port")
	if port.Type != FieldTypeNumber {
		t.Fatalf("expected integer to map to number, got %s", port.Type)
	}
}

func TestParseBytes_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown type":    `{"a": {"type": "date"}}`,
		"missing type":    `{"a": {"title": "A"}}`,
		"not a mapping":   `["a", "b"]`,
		"scalar property": `{"a": "string"}`,
		"bad min length":  `{"a": {"type": "text", "minLength": -2}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBytes([]byte(raw))
			if err == nil {
				t.Fatalf("expected error")
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %T: %v", err, err)
			}
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("expected errors.Is(err, ErrSchema)")
			}
		})
	}

	if _, err := ParseBytes([]byte("  ")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestNewDocument(t *testing.T) {
	if _, err := NewDocument(nil, []byte("{}")); err == nil {
		t.Fatalf("expected a document without source to fail")
	}
	if _, err := NewDocument(SourceFromFile("blank.yaml"), []byte(" \n\t")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}

	raw := []byte(`{"host": {"type": "string"}}`)
	doc := MustNewDocument(SourceFromFile("config.json"), raw)
	raw[0] = 'x'
	out := doc.Raw()
	out[1] = 'x'
	if string(doc.Raw()) != `{"host": {"type": "string"}}` {
		t.Fatalf("document payload was aliased: %q", doc.Raw())
	}
	if doc.Location() != "config.json" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
	if (Document{}).Location() != "" {
		t.Fatalf("zero document should have no location")
	}
}

func TestSchemaCheck_Duplicates(t *testing.T) {
	_, err := New(
		FieldSchema{Name: "host", Type: FieldTypeText},
		FieldSchema{Name: "host", Type: FieldTypeNumber},
	)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Reason != ReasonDuplicateName || schemaErr.Field != "host" {
		t.Fatalf("unexpected error detail: %+v", schemaErr)
	}

	if _, err := New(FieldSchema{Name: " ", Type: FieldTypeText}); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected empty name to fail, got %v", err)
	}
}

func TestSchemaNames_Whitespace(t *testing.T) {
	s, err := New(FieldSchema{Name: " a", Type: FieldTypeText}, FieldSchema{Name: "b ", Type: FieldTypeText})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if _, err := New(FieldSchema{Name: "a", Type: FieldTypeText}, FieldSchema{Name: " a ", Type: FieldTypeText}); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected trimmed duplicate to fail, got %v", err)
	}

	raw := Schema{Fields: []FieldSchema{{Name: " a", Type: FieldTypeText}}}
	var schemaErr *SchemaError
	if err := raw.Check(); !errors.As(err, &schemaErr) || schemaErr.Reason != ReasonMalformed {
		t.Fatalf("expected malformed name error, got %v", err)
	}
}

func TestParseFieldType(t *testing.T) {
	for _, typ := range FieldTypes() {
		got, err := ParseFieldType(string(typ))
		if err != nil || got != typ {
			t.Fatalf("round trip %s: got %s, %v", typ, got, err)
		}
	}
	if got, _ := ParseFieldType("Boolean"); got != FieldTypeCheckbox {
		t.Fatalf("expected boolean alias, got %s", got)
	}
	if FieldType("date").Valid() {
		t.Fatalf("date must not be valid")
	}
}
