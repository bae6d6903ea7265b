package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-roleform/pkg/model"
)

// Transformer mutates a built schema before decorators run. Implementations
// may relabel fields but must keep the field set and order intact.
type Transformer interface {
	Transform(ctx context.Context, schema *model.Schema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema *model.Schema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema *model.Schema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema)
}

// PresetTransformer applies declarative presentation overrides loaded from a
// YAML or JSON document:
//
//	title: Team roles
//	fields:
//	  values_select:
//	    label: Roles
//	    placeholder: Pick one or more roles
//	  r1_textfield:
//	    description: What does this role cover?
//	    customClass: wide
//
// Visibility and enablement are owned by the rule engine and cannot be
// patched.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title  string                `yaml:"title"`
	Fields map[string]fieldPatch `yaml:"fields"`
}

type fieldPatch struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Placeholder string `yaml:"placeholder"`
	CustomClass string `yaml:"customClass"`
	HideLabel   *bool  `yaml:"hideLabel"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches onto schema. Unknown field keys are errors so
// a preset written for another dataset fails loudly.
func (t *PresetTransformer) Transform(ctx context.Context, schema *model.Schema) error {
	if schema == nil {
		return errors.New("preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if title := strings.TrimSpace(t.document.Title); title != "" {
		schema.Title = title
	}
	for key, patch := range t.document.Fields {
		field, ok := schema.Field(key)
		if !ok {
			return fmt.Errorf("preset transformer: field %q not found", key)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.CustomClass != "" {
		field.CSSClass = strings.TrimSpace(field.CSSClass + " " + patch.CustomClass)
	}
	if patch.HideLabel != nil {
		field.HideLabel = *patch.HideLabel
	}
}
