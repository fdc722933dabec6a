package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/schema"
)

func TestForType_EveryFieldType(t *testing.T) {
	expect := map[schema.FieldType]string{
		schema.FieldTypeText:     WidgetTextInput,
		schema.FieldTypeString:   WidgetTextInput,
		schema.FieldTypeNumber:   WidgetNumberInput,
		schema.FieldTypePassword: WidgetPasswordInput,
		schema.FieldTypeEmail:    WidgetEmailInput,
		schema.FieldTypeCheckbox: WidgetCheckbox,
		schema.FieldTypeFile:     WidgetFileInput,
	}
	for _, typ := range schema.FieldTypes() {
		got, err := ForType(typ)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if got != expect[typ] {
			t.Fatalf("%s: expected %q, got %q", typ, expect[typ], got)
		}
	}

	if _, err := ForType(schema.FieldType("color")); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestResolve_MatchersByPriority(t *testing.T) {
	reg := NewRegistry()
	reg.Register("textarea", 10, func(d fields.Descriptor) bool {
		return d.Type == schema.FieldTypeText && d.MinLength > 20
	})
	reg.Register("rich-text", 20, func(d fields.Descriptor) bool {
		return d.Name == "description"
	})

	cases := []struct {
		name   string
		field  fields.Descriptor
		expect string
	}{
		{name: "builtin fallback", field: fields.Descriptor{Name: "host", Type: schema.FieldTypeText}, expect: WidgetTextInput},
		{name: "low priority match", field: fields.Descriptor{Name: "notes", Type: schema.FieldTypeText, MinLength: 50}, expect: "textarea"},
		{name: "higher priority wins", field: fields.Descriptor{Name: "description", Type: schema.FieldTypeText, MinLength: 50}, expect: "rich-text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.Resolve(tc.field)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestResolve_OverrideAndAssign(t *testing.T) {
	reg := NewRegistry()
	reg.Register("slider", 5, func(d fields.Descriptor) bool { return d.Type == schema.FieldTypeNumber })
	reg.Override("port", WidgetTextInput)

	descs := []fields.Descriptor{
		{Name: "name", Type: schema.FieldTypeText},
		{Name: "port", Type: schema.FieldTypeNumber},
		{Name: "timeout", Type: schema.FieldTypeNumber},
		{Name: "secure", Type: schema.FieldTypeCheckbox},
	}
	got, err := reg.Assign(descs)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	want := map[string]string{
		"name":    WidgetTextInput,
		"port":    WidgetTextInput,
		"timeout": "slider",
		"secure":  WidgetCheckbox,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("widgets mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NilRegistryUsesBuiltins(t *testing.T) {
	var reg *Registry
	got, err := reg.Resolve(fields.Descriptor{Name: "pw", Type: schema.FieldTypePassword})
	if err != nil || got != WidgetPasswordInput {
		t.Fatalf("expected password widget, got %q (%v)", got, err)
	}
}
