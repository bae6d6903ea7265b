package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"

	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
	rendertemplate "github.com/goliatone/go-roleform/pkg/render/template"
	gotemplate "github.com/goliatone/go-roleform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-roleform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	standalone       bool
	stylesheetURL    string
	scriptURL        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry overrides the component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithStandalone wraps the form in a complete HTML document carrying the
// stylesheet and runtime script.
func WithStandalone(enabled bool) Option {
	return func(cfg *config) {
		cfg.standalone = enabled
	}
}

// WithAssetURLs links the stylesheet and runtime script instead of inlining
// them in standalone documents. Empty values keep the inline copy.
func WithAssetURLs(stylesheet, script string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = stylesheet
		cfg.scriptURL = script
	}
}

// Renderer renders role form schemas as HTML through pongo2 templates.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	registry      *components.Registry
	standalone    bool
	stylesheetURL string
	scriptURL     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		registry:      cfg.registry,
		standalone:    cfg.standalone,
		stylesheetURL: cfg.stylesheetURL,
		scriptURL:     cfg.scriptURL,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits every field, hidden ones included with the hidden attribute,
// in schema order.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	partials := components.DefaultPartials()
	var themeName, themeVariant, cssVars string
	if cfg := opts.Theme; cfg != nil {
		maps.Copy(partials, cfg.Partials)
		themeName, themeVariant = cfg.Theme, cfg.Variant
		cssVars = inlineCSSVars(cfg.CSSVars)
	}

	fields := newComponentRenderer(r.templates, r.registry, partials)
	markup := make([]string, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		out, err := fields.render(field, opts.Value(field))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup = append(markup, out)
	}

	hidden := make([]map[string]any, 0, len(opts.Hidden)+1)
	for _, field := range opts.HiddenFields() {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	form, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"title":         schema.Title,
		"classes":       chromeClasses(),
		"action":        opts.Action,
		"change_url":    opts.ChangeURL,
		"export_url":    opts.ExportURL,
		"revision":      opts.Revision,
		"theme_name":    themeName,
		"theme_variant": themeVariant,
		"css_vars":      cssVars,
		"notices":       render.MergeNotices(nil, opts.Notices...),
		"hidden_fields": hidden,
		"fields":        markup,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	if !r.standalone {
		return []byte(form), nil
	}

	stylesheets, scripts := fields.assets()
	page := map[string]any{
		"title": schema.Title,
		"form":  form,
	}
	stylesheet := r.stylesheetURL
	if opts.Theme != nil && opts.Theme.AssetURL != nil {
		if themed := opts.Theme.AssetURL("stylesheet"); themed != "" {
			stylesheet = themed
		}
	}
	if stylesheet != "" {
		stylesheets = append([]string{stylesheet}, stylesheets...)
	} else {
		page["inline_style"] = readAsset(StylesheetName)
	}
	if r.scriptURL != "" {
		scripts = append([]string{r.scriptURL}, scripts...)
	} else {
		page["inline_script"] = readAsset(RuntimeScriptName)
	}
	page["stylesheets"] = stylesheets
	page["scripts"] = scripts

	document, err := r.templates.RenderTemplate("templates/page.tmpl", page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(document), nil
}
