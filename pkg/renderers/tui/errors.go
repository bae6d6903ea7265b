package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNothingSelected is returned when the user selects no role, leaving
	// the submit button disabled.
	ErrNothingSelected = errors.New("tui: no role selected")
)
