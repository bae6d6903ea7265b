package render

import (
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig resolves name/variant through selector and flattens the
// selection into the renderer configuration. Variant tokens, templates and
// assets override the base manifest; fallbacks fill partials neither defines.
// A nil selector yields a nil config.
func ThemeConfig(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return ConfigFromSelection(selection, fallbacks), nil
}

// ConfigFromSelection flattens a go-theme selection.
func ConfigFromSelection(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	maps.Copy(cfg.Partials, fallbacks)

	assets := map[string]string{}
	prefix := ""
	if manifest := selection.Manifest; manifest != nil {
		maps.Copy(cfg.Tokens, manifest.Tokens)
		maps.Copy(cfg.Partials, manifest.Templates)
		maps.Copy(assets, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if v, ok := manifest.Variants[selection.Variant]; ok {
			maps.Copy(cfg.Tokens, v.Tokens)
			maps.Copy(cfg.Partials, v.Templates)
			maps.Copy(assets, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	for token, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(token, "--")] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := assets[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

// ManifestSelector selects among a fixed set of manifests keyed by name. An
// empty name picks Default.
type ManifestSelector struct {
	Manifests map[string]*theme.Manifest
	Default   string
}

var _ theme.ThemeSelector = ManifestSelector{}

// Select implements theme.ThemeSelector.
func (s ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.Default
	}
	manifest, ok := s.Manifests[name]
	if !ok || manifest == nil {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
