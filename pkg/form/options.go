package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/fields"
)

// Option configures a Form and the components it owns.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	notifier  Notifier
	sink      Sink
	actions   []Action
	dirtyGate bool
	fieldOpts []fields.Option
	requireID bool
}

func defaultOptions() options {
	return options{
		logger:    zap.NewNop(),
		dirtyGate: true,
		requireID: true,
	}
}

func applyOptions(opts []Option) options {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.notifier == nil {
		cfg.notifier = LogNotifier(cfg.logger)
	}
	return cfg
}

// WithLogger sets the logger used for state transitions. Defaults to a no-op
// logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNotifier sets where success and error notifications go. Defaults to a
// notifier that logs through the configured logger.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithSink sets the submission sink.
func WithSink(sink Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithActions registers named actions.
func WithActions(actions ...Action) Option {
	return func(o *options) {
		o.actions = append(o.actions, actions...)
	}
}

// WithDirtyGate controls whether actions are disabled while the form has
// unsaved edits. Enabled by default.
func WithDirtyGate(enabled bool) Option {
	return func(o *options) {
		o.dirtyGate = enabled
	}
}

// WithRequirePersisted controls whether actions need a target with an ID.
// Enabled by default.
func WithRequirePersisted(enabled bool) Option {
	return func(o *options) {
		o.requireID = enabled
	}
}

// WithFieldOptions forwards options to fields.DeriveForm.
func WithFieldOptions(opts ...fields.Option) Option {
	return func(o *options) {
		o.fieldOpts = append(o.fieldOpts, opts...)
	}
}
