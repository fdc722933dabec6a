package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-dynform/pkg/validation"
)

var (
	// ErrUnknownField is returned when a field name is not part of the form.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrSubmitting is returned when Submit is called while a submission is
	// already running.
	ErrSubmitting = errors.New("form: submission already in progress")
	// ErrNoSink is returned by Submit when the form has no sink configured.
	ErrNoSink = errors.New("form: submission sink is not configured")
	// ErrNotFileField is returned by SetFile for fields that are not file inputs.
	ErrNotFileField = errors.New("form: field is not a file input")
)

// DefaultFailureMessage is shown when a sink fails without a structured message.
const DefaultFailureMessage = "Failed saving."

// DefaultSuccessMessage is shown when a sink succeeds without a message.
const DefaultSuccessMessage = "Saved."

// SubmissionError lets a Sink attach a user facing message to a failure.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("form: submission failed: %s: %v", e.Message, e.Err)
	case e.Message != "":
		return "form: submission failed: " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("form: submission failed: %v", e.Err)
	default:
		return "form: submission failed"
	}
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// FailureMessage picks the message to show for a sink error.
func FailureMessage(err error) string {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		if msg := strings.TrimSpace(subErr.Message); msg != "" {
			return msg
		}
	}
	return DefaultFailureMessage
}

// ValidationError lists the fields that block submission.
type ValidationError struct {
	Fields map[string]validation.ErrorSet
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "form: invalid fields: " + strings.Join(names, ", ")
}
