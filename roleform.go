// Package roleform renders a dynamic role-selection form from a list of role
// entities. The root package re-exports the orchestrator entry points so
// callers can start with a single import.
package roleform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-roleform/pkg/entity"
	"github.com/goliatone/go-roleform/pkg/orchestrator"
	"github.com/goliatone/go-roleform/pkg/render"
)

// RenderOptions describes per-request values and URLs handed to renderers.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Entity aliases entity.Entity.
type Entity = entity.Entity

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads entities from source, builds the form schema and renders
// it with the named renderer (vanilla when empty).
func GenerateHTML(ctx context.Context, source entity.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	opts := append([]orchestrator.Option{orchestrator.WithSource(source)}, options...)
	return orchestrator.New(opts...).Generate(ctx, orchestrator.Request{Renderer: rendererName})
}

// GenerateHTMLFromEntities renders a form for an in-memory entity list,
// bypassing the source stage.
func GenerateHTMLFromEntities(ctx context.Context, entities []Entity, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	if entities == nil {
		entities = []Entity{}
	}
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Entities: entities,
		Renderer: rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, defaultTheme, defaultVariant)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
