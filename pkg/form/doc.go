// Package form holds the runtime state of a dynamic form: per-field values
// and validation results, the named actions that can run against the edited
// target, and the submission state machine that hands values to a sink.
//
// A Form is built from a schema.Schema and a fields.Target. Every field edit
// goes through Update, which validates the new value and commits it before
// notifying subscribers. Submit revalidates every field, calls the Sink only
// when the form is valid and reports the outcome through the Notifier. Named
// actions are triggered with Trigger; each name has at most one call in
// flight and the returned channel closes once that call completes.
//
// All types are safe for concurrent use. Subscribers registered through
// Subscribe run synchronously after each commit and must not call Update
// from the same goroutine.
package form
