package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownFormat is returned for an unsupported OutputFormat.
	ErrUnknownFormat = errors.New("tui: unknown output format")
)
