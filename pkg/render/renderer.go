package render

import (
	"context"

	"github.com/goliatone/go-roleform/pkg/model"
)

// Renderer turns a role form schema into a host representation (HTML, JSON,
// terminal output).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema model.Schema, options RenderOptions) ([]byte, error)
}
