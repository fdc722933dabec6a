package form

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/schema"
	"github.com/goliatone/go-dynform/pkg/validation"
)

func testDescriptors() []fields.Descriptor {
	return []fields.Descriptor{
		{Name: "name", Type: schema.FieldTypeText, Label: "Name", InitialValue: "", Required: true},
		{Name: "email", Type: schema.FieldTypeEmail, Label: "Email", InitialValue: "", Required: true},
		{Name: "bio", Type: schema.FieldTypeText, Label: "Bio", InitialValue: "hello", MinLength: 3},
	}
}

func TestStore_InitialStateIsUnvalidated(t *testing.T) {
	store := NewStore(testDescriptors(), nil)

	for _, name := range []string{"name", "email", "bio"} {
		state, ok := store.Get(name)
		if !ok {
			t.Fatalf("missing field %s", name)
		}
		if state.Touched || state.HasErrors() {
			t.Fatalf("%s: expected clean initial state, got %+v", name, state)
		}
	}
	if bio, _ := store.Get("bio"); bio.Value != "hello" {
		t.Fatalf("expected initial value from descriptor, got %v", bio.Value)
	}
	if !store.AllValid() {
		t.Fatalf("unvalidated fields do not block validity")
	}
}

func TestStore_UpdateValidatesAndTouches(t *testing.T) {
	store := NewStore(testDescriptors(), nil)

	state, err := store.Update("email", "nope")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := FieldState{Value: "nope", Errors: validation.ErrorSet{Email: true}, Touched: true}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if store.AllValid() {
		t.Fatalf("expected form to be invalid")
	}

	if _, err := store.Update("email", "a@b.com"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !store.AllValid() {
		t.Fatalf("expected form to be valid after fixing email")
	}
	if !store.Touched() {
		t.Fatalf("expected store to be touched")
	}
}

func TestStore_AllValidChecksEveryField(t *testing.T) {
	store := NewStore(testDescriptors(), nil)
	_, _ = store.Update("name", "")
	_, _ = store.Update("bio", "x")

	invalid := store.Snapshot().Invalid()
	if len(invalid) != 2 {
		t.Fatalf("expected two invalid fields, got %v", invalid)
	}
	if !invalid["name"].Required || !invalid["bio"].MinLength {
		t.Fatalf("unexpected error sets %+v", invalid)
	}
}

func TestStore_UnknownField(t *testing.T) {
	store := NewStore(testDescriptors(), nil)
	if _, err := store.Update("missing", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestStore_ValidateKeepsTouchedFlags(t *testing.T) {
	store := NewStore(testDescriptors(), nil)
	snapshot := store.Validate()

	if snapshot.Valid() {
		t.Fatalf("expected required fields to fail")
	}
	if snapshot.Touched() {
		t.Fatalf("validate must not mark fields touched")
	}
	name, _ := store.Get("name")
	if !name.Errors.Required {
		t.Fatalf("expected committed required error on name")
	}
}

func TestStore_MarkClean(t *testing.T) {
	store := NewStore(testDescriptors(), nil)
	_, _ = store.Update("name", "x")
	store.MarkClean()

	if store.Touched() {
		t.Fatalf("expected clean store")
	}
	if name, _ := store.Get("name"); name.Value != "x" {
		t.Fatalf("mark clean must keep values, got %v", name.Value)
	}
}

func TestStore_SubscribersSeeCommitsInOrder(t *testing.T) {
	store := NewStore(testDescriptors(), nil)

	var seen []any
	cancel := store.Subscribe(func(f Fields) {
		state, _ := f.Get("name")
		seen = append(seen, state.Value)
	})

	_, _ = store.Update("name", "a")
	_, _ = store.Update("name", "b")
	cancel()
	_, _ = store.Update("name", "c")

	if diff := cmp.Diff([]any{"a", "b"}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_ApplyIsImmutable(t *testing.T) {
	descs := testDescriptors()
	before := NewFields(descs)
	after := before.Apply(descs[0], "changed")

	if state, _ := before.Get("name"); state.Value != "" || state.Touched {
		t.Fatalf("original snapshot mutated: %+v", state)
	}
	if state, _ := after.Get("name"); state.Value != "changed" || !state.Touched {
		t.Fatalf("new snapshot missing update: %+v", state)
	}
	if diff := cmp.Diff([]string{"name", "email", "bio"}, after.Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SubscriberCanWriteBack(t *testing.T) {
	store := NewStore(testDescriptors(), nil)

	var seen []string
	store.Subscribe(func(f Fields) {
		name, _ := f.Get("name")
		bio, _ := f.Get("bio")
		seen = append(seen, fmt.Sprintf("%v/%v", name.Value, bio.Value))
		if name.Value == "ada" && bio.Value == "hello" {
			if _, err := store.Update("bio", "derived from ada"); err != nil {
				t.Errorf("nested update: %v", err)
			}
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Update("name", "ada")
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("update from a subscriber did not return")
	}

	want := []string{"ada/hello", "ada/derived from ada"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if bio, _ := store.Get("bio"); bio.Value != "derived from ada" {
		t.Fatalf("expected derived value, got %v", bio.Value)
	}
}

func TestStore_MarkSavedKeepsLaterEdits(t *testing.T) {
	store := NewStore(testDescriptors(), nil)
	_, _ = store.Update("name", "ada")
	_, _ = store.Update("bio", "first")
	saved := store.Snapshot()

	_, _ = store.Update("bio", "edited after save")
	store.MarkSaved(saved)

	if name, _ := store.Get("name"); name.Touched {
		t.Fatalf("saved field should be clean")
	}
	if bio, _ := store.Get("bio"); !bio.Touched {
		t.Fatalf("field edited after the snapshot should stay touched")
	}
	if !store.Touched() {
		t.Fatalf("store should still report unsaved edits")
	}
}
