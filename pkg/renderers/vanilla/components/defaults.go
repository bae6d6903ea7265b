package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-roleform/pkg/model"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry constructs a registry with one template-backed component
// per field kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, name := range []string{NameSelect, NameCheckbox, NameTextField, NameButton} {
		registry.MustRegister(name, Descriptor{
			Renderer: templateComponentRenderer(PartialKey(name), templatePrefix+name+".tmpl"),
		})
	}
	return registry
}

// DefaultPartials lists the built-in template of every default component under
// its go-theme partial key. Themes override entries by key.
func DefaultPartials() map[string]string {
	out := make(map[string]string, 4)
	for _, name := range []string{NameSelect, NameCheckbox, NameTextField, NameButton} {
		out[PartialKey(name)] = templatePrefix + name + ".tmpl"
	}
	return out
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{
			"field":       field,
			"id":          data.ControlID,
			"value":       data.Value,
			"label":       data.Label,
			"description": data.Description,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
