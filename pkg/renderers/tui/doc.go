// Package tui hosts a role form in the terminal. The renderer drives a
// session through survey prompts and serializes the submitted payload as
// JSON, form-encoded text or a pretty summary.
package tui
