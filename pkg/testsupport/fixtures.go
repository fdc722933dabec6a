package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// LoadSchema reads a JSON or YAML schema fixture. Failures end the test.
func LoadSchema(t *testing.T, path string) schema.Schema {
	t.Helper()

	s, err := LoadSchemaFromPath(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return s
}

// LoadSchemaFromPath returns a Schema without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadSchemaFromPath(path string) (schema.Schema, error) {
	if path == "" {
		return schema.Schema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return schema.Parse(doc)
}

// MustLoadTarget reads a target fixture ({id, name, options}) in JSON or YAML.
func MustLoadTarget(t *testing.T, path string) fields.Target {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	var target fields.Target
	if err := yaml.Unmarshal(data, &target); err != nil {
		t.Fatalf("unmarshal target: %v", err)
	}
	return target
}

// MustNewForm mounts a form, failing the test on error.
func MustNewForm(t *testing.T, s schema.Schema, target fields.Target, opts ...form.Option) *form.Form {
	t.Helper()

	f, err := form.New(s, target, opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

// RecordingSink is a form.Sink that records every submission and replies
// with Message and Err.
type RecordingSink struct {
	mu      sync.Mutex
	calls   []map[string]any
	Message string
	Err     error
}

// Submit implements form.Sink.
func (s *RecordingSink) Submit(_ context.Context, values map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, values)
	return s.Message, s.Err
}

// Calls returns the values of every submission so far.
func (s *RecordingSink) Calls() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.calls...)
}

// RecordingNotifier is a form.Notifier that keeps every notification.
type RecordingNotifier struct {
	mu    sync.Mutex
	notes []form.Notification
}

// Notify implements form.Notifier.
func (n *RecordingNotifier) Notify(note form.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

// Notifications returns the notifications received so far.
func (n *RecordingNotifier) Notifications() []form.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]form.Notification(nil), n.notes...)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
