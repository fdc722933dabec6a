package fields

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/schema"
)

func TestDerive_TargetOverridesDefault(t *testing.T) {
	s := schema.MustNew(schema.FieldSchema{Name: "age", Type: schema.FieldTypeNumber, Default: 0, HasDefault: true})

	got, err := Derive(s, map[string]any{"age": 5})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(got) != 1 || got[0].InitialValue != 5 {
		t.Fatalf("expected initial value 5, got %+v", got)
	}
}

func TestDerive_DefaultsAndZeroValues(t *testing.T) {
	s := schema.MustNew(
		schema.FieldSchema{Name: "host", Type: schema.FieldTypeText, Default: "localhost", HasDefault: true},
		schema.FieldSchema{Name: "use_ssl", Type: schema.FieldTypeCheckbox},
		schema.FieldSchema{Name: "port", Type: schema.FieldTypeNumber},
		schema.FieldSchema{Name: "api_key", Type: schema.FieldTypePassword, Title: "API Key", Required: true, MinLength: 8},
	)

	got, err := Derive(s, nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	want := []Descriptor{
		{Name: "host", Type: schema.FieldTypeText, Label: "Host", InitialValue: "localhost", Placeholder: "localhost"},
		{Name: "use_ssl", Type: schema.FieldTypeCheckbox, Label: "Use Ssl", InitialValue: false},
		{Name: "port", Type: schema.FieldTypeNumber, Label: "Port", InitialValue: nil},
		{Name: "api_key", Type: schema.FieldTypePassword, Label: "API Key", InitialValue: "", Required: true, MinLength: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptors mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_SchemaErrors(t *testing.T) {
	dup := schema.Schema{Fields: []schema.FieldSchema{
		{Name: "a", Type: schema.FieldTypeText},
		{Name: "a", Type: schema.FieldTypeText},
	}}
	if _, err := Derive(dup, nil); !errors.Is(err, schema.ErrSchema) {
		t.Fatalf("expected schema error for duplicate, got %v", err)
	}

	empty := schema.Schema{Fields: []schema.FieldSchema{{Name: "", Type: schema.FieldTypeText}}}
	var schemaErr *schema.SchemaError
	if _, err := DeriveForm(empty, Target{}); !errors.As(err, &schemaErr) {
		t.Fatalf("expected schema error for empty name, got %v", err)
	}
	if schemaErr.Reason != schema.ReasonEmptyName {
		t.Fatalf("unexpected reason %s", schemaErr.Reason)
	}
}

func TestDeriveForm_TrimmedNameMergesIntoImplicitName(t *testing.T) {
	s := schema.MustNew(
		schema.FieldSchema{Name: " name ", Type: schema.FieldTypeText, Title: "Integration name"},
		schema.FieldSchema{Name: " host", Type: schema.FieldTypeText},
	)
	got, err := DeriveForm(s, Target{Name: "db"})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	var names []string
	for _, d := range got {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"name", "host"}, names); diff != "" {
		t.Fatalf("descriptor names mismatch (-want +got):\n%s", diff)
	}
	if got[0].Label != "Integration name" {
		t.Fatalf("expected schema title on the name field, got %q", got[0].Label)
	}

	raw := schema.Schema{Fields: []schema.FieldSchema{{Name: " a", Type: schema.FieldTypeText}}}
	if _, err := Derive(raw, nil); !errors.Is(err, schema.ErrSchema) {
		t.Fatalf("expected untrimmed name to be rejected, got %v", err)
	}
}

func TestDeriveForm_NameFirst(t *testing.T) {
	s := schema.MustNew(
		schema.FieldSchema{Name: "email", Type: schema.FieldTypeEmail, Required: true},
		schema.FieldSchema{Name: "name", Type: schema.FieldTypeText, Title: "Display Name", MinLength: 2},
	)

	got, err := DeriveForm(s, Target{Name: "primary", Values: map[string]any{"email": "a@b.com"}})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(got))
	}
	name := got[0]
	if name.Name != NameField || !name.Required || name.Label != "Display Name" || name.MinLength != 2 {
		t.Fatalf("unexpected name descriptor %+v", name)
	}
	if name.InitialValue != "primary" {
		t.Fatalf("expected name from target, got %v", name.InitialValue)
	}
	if got[1].InitialValue != "a@b.com" {
		t.Fatalf("expected email from target values, got %v", got[1].InitialValue)
	}
}

func TestDerive_CustomLabeler(t *testing.T) {
	s := schema.MustNew(schema.FieldSchema{Name: "host", Type: schema.FieldTypeText})
	got, err := Derive(s, nil, WithLabeler(func(name string) string { return "<" + name + ">" }))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if got[0].Label != "<host>" {
		t.Fatalf("unexpected label %q", got[0].Label)
	}
}
