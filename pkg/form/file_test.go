package form

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/schema"
)

func fileForm(t *testing.T) *Form {
	t.Helper()
	s := schema.MustNew(
		schema.FieldSchema{Name: "certificate", Type: schema.FieldTypeFile},
		schema.FieldSchema{Name: "host", Type: schema.FieldTypeText},
	)
	f, err := New(s, fields.Target{Name: "x"})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func TestForm_SetFileEncodesContent(t *testing.T) {
	f := fileForm(t)

	if err := <-f.SetFile(context.Background(), "certificate", strings.NewReader("hello")); err != nil {
		t.Fatalf("set file: %v", err)
	}
	state, _ := f.Field("certificate")
	if state.Value != "aGVsbG8=" {
		t.Fatalf("expected base64 content, got %v", state.Value)
	}
	if !state.Touched {
		t.Fatalf("expected file field touched")
	}
}

func TestForm_SetFileErrors(t *testing.T) {
	f := fileForm(t)

	if err := <-f.SetFile(context.Background(), "host", strings.NewReader("x")); !errors.Is(err, ErrNotFileField) {
		t.Fatalf("expected ErrNotFileField, got %v", err)
	}
	if err := <-f.SetFile(context.Background(), "missing", strings.NewReader("x")); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	boom := errors.New("disk gone")
	if err := <-f.SetFile(context.Background(), "certificate", iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if state, _ := f.Field("certificate"); state.Touched {
		t.Fatalf("failed reads must not change the field")
	}
}

func TestEncodeFile(t *testing.T) {
	if got := EncodeFile(nil); got != "" {
		t.Fatalf("expected empty encoding, got %q", got)
	}
}
