package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/pkg/entity"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/renderers/vanilla"
	"github.com/goliatone/go-roleform/pkg/renderers/vanilla/components"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSource sets the entity source. Defaults to the embedded dataset.
func WithSource(source entity.Source) Option {
	return func(o *Orchestrator) {
		o.source = source
	}
}

// WithModelBuilder injects a custom schema builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that runs after building and
// before decorators.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the built schema
// before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
// defaultTheme and defaultVariant apply when a request names neither.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// WithThemeFallbacks sets the partials used when a theme leaves a component
// template unset. Defaults to the vanilla component partials.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from entity list to rendered output.
// It applies defaults (embedded dataset, vanilla renderer) while remaining
// open to dependency injection.
type Orchestrator struct {
	source          entity.Source
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	themeSelector   theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	themeFallbacks  map[string]string
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a single render.
type Request struct {
	// Entities bypasses the configured source when non-nil.
	Entities []entity.Entity

	// Renderer names the renderer to use. Empty falls back to the configured
	// default renderer.
	Renderer string

	// ThemeName and ThemeVariant override the selector defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request values and URLs. A Theme set here
	// wins over the selector.
	RenderOptions render.RenderOptions
}

// Schema runs the source → builder → transformer → decorators stages.
func (o *Orchestrator) Schema(ctx context.Context, entities []entity.Entity) (model.Schema, error) {
	if ctx == nil {
		return model.Schema{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Schema{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.Schema{}, err
	}

	if entities == nil {
		loaded, err := o.source.Entities(ctx)
		if err != nil {
			return model.Schema{}, fmt.Errorf("orchestrator: load entities: %w", err)
		}
		entities = loaded
	}
	if err := entity.CheckUnique(entities); err != nil {
		return model.Schema{}, fmt.Errorf("orchestrator: %w", err)
	}

	schema, err := o.builder.Build(entities)
	if err != nil {
		return model.Schema{}, fmt.Errorf("orchestrator: build schema: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &schema); err != nil {
			return model.Schema{}, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&schema); err != nil {
			return model.Schema{}, fmt.Errorf("orchestrator: decorate schema: %w", err)
		}
	}
	o.logger.Debug("schema built", zap.Int("entities", len(entities)), zap.Int("fields", len(schema.Fields)))
	return schema, nil
}

// Generate builds the schema and renders it with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	schema, err := o.Schema(ctx, req.Entities)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, schema, req)
}

// Render renders an already built schema, resolving the theme first.
func (o *Orchestrator) Render(ctx context.Context, schema model.Schema, req Request) ([]byte, error) {
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.ResolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, schema, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// ResolveTheme turns a theme/variant choice into renderer configuration.
// Returns nil when no selector is configured.
func (o *Orchestrator) ResolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}
	cfg, err := render.ThemeConfig(o.themeSelector, name, variant, o.themeFallbacks)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return cfg, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.source == nil {
		o.source = entity.Embedded()
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = components.DefaultPartials()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
