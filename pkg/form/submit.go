package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Sink persists submitted values. The returned message, when non-empty, is
// used for the success notification. Return a *SubmissionError to control the
// failure notification text.
type Sink interface {
	Submit(ctx context.Context, values map[string]any) (string, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, values map[string]any) (string, error)

// Submit calls fn.
func (fn SinkFunc) Submit(ctx context.Context, values map[string]any) (string, error) {
	return fn(ctx, values)
}

// Outcome is the result of a submission attempt.
type Outcome string

const (
	OutcomeInvalid Outcome = "invalid"
	OutcomeSaved   Outcome = "saved"
	OutcomeFailed  Outcome = "failed"
)

// Submission machine states and events.
const (
	StateIdle       = "idle"
	StateSubmitting = "submitting"

	EventSubmit  = "submit"
	EventReject  = "reject"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// Submitter runs the idle -> submitting -> idle submission machine. Once a
// submission starts it runs to completion; there is no cancellation event.
type Submitter struct {
	machine  *fsm.FSM
	sink     Sink
	notifier Notifier
	logger   *zap.Logger
	onSaved  func(values map[string]any)
}

// NewSubmitter builds a submitter in the idle state.
func NewSubmitter(sink Sink, notifier Notifier, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = LogNotifier(logger)
	}
	s := &Submitter{sink: sink, notifier: notifier, logger: logger}
	s.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventSubmit, Src: []string{StateIdle}, Dst: StateSubmitting},
			{Name: EventReject, Src: []string{StateSubmitting}, Dst: StateIdle},
			{Name: EventSucceed, Src: []string{StateSubmitting}, Dst: StateIdle},
			{Name: EventFail, Src: []string{StateSubmitting}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.logger.Debug("submission transition",
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
	return s
}

// OnSaved registers fn to receive the submitted values after the sink
// accepts them.
func (s *Submitter) OnSaved(fn func(values map[string]any)) {
	s.onSaved = fn
}

// Submitting reports whether a submission is running.
func (s *Submitter) Submitting() bool {
	return s.machine.Is(StateSubmitting)
}

// State returns the current machine state.
func (s *Submitter) State() string {
	return s.machine.Current()
}

// Submit validates every field of store and, when the form is valid, hands
// the values to the sink. Sink failures become error notifications and an
// OutcomeFailed result; the returned error is reserved for misuse.
func (s *Submitter) Submit(ctx context.Context, store *Store) (Outcome, error) {
	if s.sink == nil {
		return "", ErrNoSink
	}
	if err := s.machine.Event(context.WithoutCancel(ctx), EventSubmit); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return "", ErrSubmitting
		}
		return "", fmt.Errorf("form: start submission: %w", err)
	}

	snapshot := store.Validate()
	if !snapshot.Valid() {
		s.transition(ctx, EventReject)
		s.logger.Debug("submission blocked by validation", zap.Int("invalidFields", len(snapshot.Invalid())))
		return OutcomeInvalid, nil
	}

	values := snapshot.Values()
	message, err := s.sink.Submit(ctx, values)
	if err != nil {
		s.transition(ctx, EventFail)
		s.logger.Debug("submission failed", zap.Error(err))
		s.notifier.Notify(Notification{Level: LevelError, Message: FailureMessage(err)})
		return OutcomeFailed, nil
	}

	// edits made while the sink ran were not submitted and stay touched
	store.MarkSaved(snapshot)
	if s.onSaved != nil {
		s.onSaved(values)
	}
	s.transition(ctx, EventSucceed)
	if strings.TrimSpace(message) == "" {
		message = DefaultSuccessMessage
	}
	s.notifier.Notify(Notification{Level: LevelSuccess, Message: message})
	return OutcomeSaved, nil
}

// transition ignores ctx cancellation: a started submission always returns
// to idle.
func (s *Submitter) transition(ctx context.Context, event string) {
	if err := s.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("submission transition rejected", zap.String("event", event), zap.Error(err))
	}
}
