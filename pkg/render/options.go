package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-roleform/pkg/model"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the schema.
type RenderOptions struct {
	// Values is the captured form data keyed by flat field key. Missing keys
	// fall back to the field defaults.
	Values map[string]any
	// Action is the URL the rendered form submits to.
	Action string
	// ChangeURL receives JSON change events from the rendered form.
	ChangeURL string
	// ExportURL serves the data.json download for the last submission.
	ExportURL string
	// SessionID identifies the server-side session backing the form.
	SessionID string
	// Revision is the session revision the output was rendered from.
	Revision int
	// Hidden carries extra hidden inputs emitted alongside the schema.
	Hidden map[string]string
	// Notices surfaces form-level messages (for example a refused submit).
	Notices []string
	// Theme carries the resolved go-theme configuration, if any.
	Theme *theme.RendererConfig
}

// Value returns the captured value for key, falling back to the field's
// default.
func (o RenderOptions) Value(field model.Field) any {
	if o.Values != nil {
		if value, ok := o.Values[field.Key]; ok {
			return value
		}
	}
	return field.Default
}
