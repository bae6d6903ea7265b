// Package vanilla renders role form schemas as server-side HTML using the
// embedded pongo2 templates. Labels are sanitised with bluemonday and an
// optional go-theme selection contributes CSS variables and template
// overrides. Standalone output ships a small runtime that posts change events
// back to the host and applies the returned snapshot.
package vanilla
