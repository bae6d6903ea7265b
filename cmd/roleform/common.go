package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	roleform "github.com/goliatone/go-roleform"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/orchestrator"
	"github.com/goliatone/go-roleform/pkg/render"
)

// orchestrator assembles the pipeline from the resolved config.
func (a *app) orchestrator(extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{
		orchestrator.WithSource(roleform.NewSource(a.cfg.Dataset.Path)),
		orchestrator.WithLogger(a.logger),
	}
	if title := strings.TrimSpace(a.cfg.Form.Title); title != "" {
		options = append(options, orchestrator.WithDecorators(model.WithTitle(title)))
	}
	if path := a.cfg.Form.Preset; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("roleform: read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(preset))
	}

	selector, err := a.themeSelector()
	if err != nil {
		return nil, err
	}
	if selector != nil {
		options = append(options, orchestrator.WithThemeSelector(selector, a.cfg.Theme.Name, a.cfg.Theme.Variant))
	}
	return orchestrator.New(append(options, extra...)...), nil
}

// themeSelector loads the configured manifest. A theme name without a
// manifest file is an error since no other theme source exists.
func (a *app) themeSelector() (theme.ThemeSelector, error) {
	path := a.cfg.Theme.File
	if path == "" {
		if a.cfg.Theme.Name != "" {
			return nil, errors.New("roleform: --theme requires --theme-file")
		}
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roleform: read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("roleform: parse theme manifest: %w", err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("roleform: theme manifest %s has no name", path)
	}
	return render.ManifestSelector{
		Manifests: map[string]*theme.Manifest{manifest.Name: &manifest},
		Default:   manifest.Name,
	}, nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("roleform: write %s: %w", path, err)
	}
	return nil
}
