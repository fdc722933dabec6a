package form

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/fields"
	"github.com/goliatone/go-dynform/pkg/schema"
)

// Form is one mounted dynamic form: descriptors derived from a schema and a
// target, the field store, the action dispatcher and the submitter.
type Form struct {
	schema      schema.Schema
	target      fields.Target
	descriptors []fields.Descriptor

	initialMu sync.RWMutex
	initial   map[string]any

	store      *Store
	dispatcher *Dispatcher
	submitter  *Submitter

	opts   options
	logger *zap.Logger
}

// New derives descriptors and builds the form state. A malformed schema fails
// with *schema.SchemaError before anything else is built.
func New(s schema.Schema, target fields.Target, opts ...Option) (*Form, error) {
	cfg := applyOptions(opts)

	descriptors, err := fields.DeriveForm(s, target, cfg.fieldOpts...)
	if err != nil {
		return nil, err
	}

	f := &Form{
		schema:      s,
		target:      target,
		descriptors: descriptors,
		initial:     make(map[string]any, len(descriptors)),
		opts:        cfg,
		logger:      cfg.logger,
	}
	for _, d := range descriptors {
		f.initial[d.Name] = d.InitialValue
	}

	f.store = NewStore(descriptors, cfg.logger)
	// the name field is checked at mount so a target without a name starts invalid
	f.store.Validate(fields.NameField)

	var gates []Gate
	if cfg.requireID {
		gates = append(gates, func(string) bool { return f.target.Persisted() })
	}
	if cfg.dirtyGate {
		gates = append(gates, func(string) bool { return !f.store.Touched() })
	}
	f.dispatcher, err = NewDispatcher(cfg.actions, cfg.logger, gates...)
	if err != nil {
		return nil, err
	}

	f.submitter = NewSubmitter(cfg.sink, cfg.notifier, cfg.logger)
	f.submitter.OnSaved(f.rebase)

	f.logger.Debug("form mounted",
		zap.Int("fields", len(descriptors)),
		zap.Int("actions", len(cfg.actions)),
		zap.Bool("persisted", target.Persisted()),
	)
	return f, nil
}

// Schema returns the schema the form was built from.
func (f *Form) Schema() schema.Schema {
	return f.schema
}

// Target returns the edited target as it was at mount.
func (f *Form) Target() fields.Target {
	return f.target
}

// Descriptors returns the field descriptors, name field first.
func (f *Form) Descriptors() []fields.Descriptor {
	return append([]fields.Descriptor(nil), f.descriptors...)
}

// Descriptor looks up a descriptor by field name.
func (f *Form) Descriptor(name string) (fields.Descriptor, bool) {
	return f.store.Descriptor(name)
}

// Store exposes the field store.
func (f *Form) Store() *Store {
	return f.store
}

// Dispatcher exposes the action dispatcher.
func (f *Form) Dispatcher() *Dispatcher {
	return f.dispatcher
}

// Update validates and commits a new value for a field.
func (f *Form) Update(name string, value any) (FieldState, error) {
	return f.store.Update(name, value)
}

// Field returns the current state of a field.
func (f *Form) Field(name string) (FieldState, bool) {
	return f.store.Get(name)
}

// Subscribe registers fn to run after every field commit.
func (f *Form) Subscribe(fn func(Fields)) func() {
	return f.store.Subscribe(fn)
}

// Valid reports form level validity from the stored errors.
func (f *Form) Valid() bool {
	return f.store.AllValid()
}

// Touched reports whether the form has edits since the last successful save.
func (f *Form) Touched() bool {
	return f.store.Touched()
}

// Values returns the current value of every field.
func (f *Form) Values() map[string]any {
	return f.store.Snapshot().Values()
}

// Validate runs every validator, commits the results and returns a
// *ValidationError when any field fails.
func (f *Form) Validate() error {
	snapshot := f.store.Validate()
	if invalid := snapshot.Invalid(); len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}

// Submit runs the submission flow. See Submitter.Submit.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	return f.submitter.Submit(ctx, f.store)
}

// Submitting reports whether a submission is running.
func (f *Form) Submitting() bool {
	return f.submitter.Submitting()
}

// SubmitEnabled reports whether the save control should be active.
func (f *Form) SubmitEnabled() bool {
	return f.Valid() && !f.Submitting()
}

// Trigger starts a named action. See Dispatcher.Trigger.
func (f *Form) Trigger(ctx context.Context, name string) (<-chan struct{}, bool) {
	return f.dispatcher.Trigger(ctx, name)
}

// Actions returns the registered actions.
func (f *Form) Actions() []Action {
	return f.dispatcher.Actions()
}

// ActionsVisible reports whether action controls should be offered at all:
// actions only make sense for a persisted target.
func (f *Form) ActionsVisible() bool {
	if len(f.dispatcher.Actions()) == 0 {
		return false
	}
	return !f.opts.requireID || f.target.Persisted()
}

// ActionEnabled reports whether Trigger would start the action now.
func (f *Form) ActionEnabled(name string) bool {
	return f.dispatcher.Enabled(name)
}

// State returns a snapshot of the whole form.
func (f *Form) State() FormState {
	snapshot := f.store.Snapshot()
	return FormState{
		Fields:            snapshot.States(),
		Order:             snapshot.Names(),
		Submitting:        f.submitter.Submitting(),
		InProgressActions: f.dispatcher.InProgress(),
	}
}

func (f *Form) String() string {
	return fmt.Sprintf("form(%d fields, target=%q)", len(f.descriptors), f.target.ID)
}
