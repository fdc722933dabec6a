package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/testsupport"
)

const smtpSchema = `
type: object
required: [host]
properties:
  host:
    type: string
  port:
    type: number
    default: 587
  useTls:
    type: checkbox
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestFieldsCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", smtpSchema)

	out, err := execute(t, "fields", "--schema", schemaPath, "--format", "json")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	for _, fragment := range []string{`"name": "name"`, `"name": "host"`, `"initialValue": 587`, `"type": "checkbox"`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output\n%s", fragment, out)
		}
	}
}

func TestFieldsCommand_YAMLGolden(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", smtpSchema)
	targetPath := writeFile(t, dir, "target.yaml", "name: mail\noptions:\n  host: smtp.internal\n")

	out, err := execute(t, "fields", "-s", schemaPath, "-t", targetPath)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}

	goldenPath := filepath.Join("testdata", "fields.golden.yaml")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(out)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCommand_ReportsInvalidFields(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", smtpSchema)
	targetPath := writeFile(t, dir, "target.json", `{"id": 3, "name": "", "values": {"port": 25}}`)

	out, err := execute(t, "validate", "-s", schemaPath, "-t", targetPath)
	var invalid *form.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "host: This field is required.\nname: This field is required.\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	out, err = execute(t, "validate", "-s", schemaPath, "-t", targetPath, "--set", "name=mail", "--set", "host=smtp.internal")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out != "valid\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", smtpSchema)
	targetPath := writeFile(t, dir, "target.yaml", "id: \"12\"\nname: mail\noptions:\n  host: smtp.internal\n")

	out, err := execute(t, "render", "-s", schemaPath, "-t", targetPath, "--action", "/integrations/12", "--method", "put", "--csrf", "tok", "--set", "useTls=yes")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, fragment := range []string{
		`action="/integrations/12" method="POST"`,
		`name="_method" value="PUT"`,
		`name="_csrf" value="tok"`,
		`name="id" value="12"`,
		`name="useTls" value="true" checked`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output\n%s", fragment, out)
		}
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.yaml", smtpSchema)

	if _, err := execute(t, "render"); err == nil {
		t.Fatalf("expected missing --schema error")
	}
	if _, err := execute(t, "render", "-s", schemaPath, "--set", "missing=1"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if _, err := execute(t, "render", "-s", schemaPath, "--component", "A", "--operation", "b"); err == nil {
		t.Fatalf("expected mutually exclusive flag error")
	}
}

func TestParseTarget(t *testing.T) {
	got, err := parseTarget([]byte(`{"id": 42, "name": "db", "values": {"host": "x"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := fields.Target{ID: "42", Name: "db", Values: map[string]any{"host": "x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("target mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseTarget([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestHTTPSinkHeaders(t *testing.T) {
	a := &app{logger: zap.NewNop()}
	if _, err := a.httpSink("http://localhost/submit", "POST", []string{"Authorization: Bearer x"}); err != nil {
		t.Fatalf("sink: %v", err)
	}
	if _, err := a.httpSink("http://localhost/submit", "POST", []string{"broken"}); err == nil {
		t.Fatalf("expected invalid header error")
	}
}
