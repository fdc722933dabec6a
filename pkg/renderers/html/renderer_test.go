package html_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/html"
	"github.com/goliatone/go-dynform/pkg/schema"
	"github.com/goliatone/go-dynform/pkg/testsupport"
	"github.com/goliatone/go-dynform/pkg/widgets"
)

func testSchema() schema.Schema {
	return schema.MustNew(
		schema.FieldSchema{Name: "email", Type: schema.FieldTypeEmail, Title: "Contact <em>email</em><script>x()</script>", Required: true},
		schema.FieldSchema{Name: "port", Type: schema.FieldTypeNumber, Default: 5432, HasDefault: true},
		schema.FieldSchema{Name: "password", Type: schema.FieldTypePassword},
		schema.FieldSchema{Name: "useSsl", Type: schema.FieldTypeCheckbox},
	)
}

func renderForm(t *testing.T, f *form.Form, opts render.RenderOptions) string {
	t.Helper()

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, output)
		}
	}
}

func TestRenderer_NewTargetIsInvalid(t *testing.T) {
	f := testsupport.MustNewForm(t, testSchema(), fields.Target{})
	output := renderForm(t, f, render.RenderOptions{Action: "/integrations"})

	assertContains(t, output,
		`action="/integrations" method="POST"`,
		`<input class="form-control" type="email" id="field-email" name="email" required>`,
		`<input class="form-control" type="number" id="field-port" name="port" value="5432" placeholder="5432">`,
		`<input type="checkbox" id="field-useSsl" name="useSsl" value="true"> Use Ssl</label>`,
		`Contact <em>email</em>`,
		`<span class="help-block">This field is required.</span>`,
		`<button type="submit" class="btn btn-primary" disabled>Save</button>`,
	)
	assertNotContains(t, output, "<script>", "data-action=")
}

func TestRenderer_PersistedTargetWithActions(t *testing.T) {
	action := form.Action{Name: "test", Class: "btn-default", Run: func(context.Context) {}}
	target := fields.Target{
		ID:   "9",
		Name: "warehouse",
		Values: map[string]any{
			"email":    "ops@example.com",
			"password": "hunter2",
			"useSsl":   true,
		},
	}
	f := testsupport.MustNewForm(t, testSchema(), target, form.WithActions(action))

	output := renderForm(t, f, render.RenderOptions{Method: "patch"}.WithHidden(render.CSRFToken("_csrf", "abc")))
	assertContains(t, output,
		`data-target-id="9"`,
		`value="warehouse"`,
		`value="ops@example.com"`,
		`checked`,
		`<input type="hidden" name="_csrf" value="abc">`,
		`<input type="hidden" name="_method" value="PATCH">`,
		`<button type="submit" class="btn btn-primary">Save</button>`,
		`<button type="button" class="btn btn-default" data-action="test">Test</button>`,
	)
	assertNotContains(t, output, "hunter2", "help-block")

	if _, err := f.Update("email", "changed@example.com"); err != nil {
		t.Fatalf("update: %v", err)
	}
	output = renderForm(t, f, render.RenderOptions{})
	assertContains(t, output, `data-action="test" disabled`)
}

func TestRenderer_Theme(t *testing.T) {
	f := testsupport.MustNewForm(t, testSchema(), fields.Target{Name: "x"})
	output := renderForm(t, f, render.RenderOptions{Theme: &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456", "--accent": "#fff"},
		AssetURL: func(key string) string {
			return "/themes/acme/" + key
		},
	}})

	assertContains(t, output,
		`data-theme="acme" data-variant="dark"`,
		`<link rel="stylesheet" href="/themes/acme/dynform.css">`,
		`<style>:root { --accent: #fff; --brand: #123456; }</style>`,
	)
}

func TestRenderer_ThemeDropsUnsafeCSSVars(t *testing.T) {
	f := testsupport.MustNewForm(t, testSchema(), fields.Target{Name: "x"})
	output := renderForm(t, f, render.RenderOptions{Theme: &theme.RendererConfig{
		CSSVars: map[string]string{
			"--brand":                  "#123456",
			"--evil":                   "red;}</style><script>alert(1)</script>",
			"color":                    "blue",
			"--x} body{background:red": "#000",
			"--quoted":                 `"Inter"`,
		},
	}})

	assertContains(t, output, `<style>:root { --brand: #123456; }</style>`)
	assertNotContains(t, output, "<script>", "alert(1)", "background:red", "Inter", "color: blue")
}

func TestRenderer_ThemeWithOnlyUnsafeCSSVarsOmitsStyle(t *testing.T) {
	f := testsupport.MustNewForm(t, testSchema(), fields.Target{Name: "x"})
	output := renderForm(t, f, render.RenderOptions{Theme: &theme.RendererConfig{
		CSSVars: map[string]string{"--evil": "</style><script>x()</script>"},
	}})
	assertNotContains(t, output, "<style>", "<script>")
}

func TestRenderer_TextAreaOverride(t *testing.T) {
	s := schema.MustNew(schema.FieldSchema{Name: "notes", Type: schema.FieldTypeText})
	f := testsupport.MustNewForm(t, s, fields.Target{Name: "x", Values: map[string]any{"notes": "a <b> c"}})

	registry := widgets.NewRegistry()
	registry.Override("notes", widgets.WidgetTextArea)
	output := renderForm(t, f, render.RenderOptions{Widgets: registry})

	assertContains(t, output,
		`data-widget="textarea"`,
		`<textarea class="form-control" id="field-notes" name="notes">a &lt;b&gt; c</textarea>`,
	)
	assertNotContains(t, output, `name="notes" value=`)
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer metadata %s %s", renderer.Name(), renderer.ContentType())
	}
}
