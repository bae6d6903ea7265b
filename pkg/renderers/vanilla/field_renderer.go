package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render/template"
	"github.com/goliatone/go-roleform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	used []string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		partials:  partials,
	}
}

func (r *componentRenderer) render(field model.Field, value any) (string, error) {
	name := components.NameFor(field.Kind)
	if name == "" {
		return "", fmt.Errorf("field %q has unsupported kind %q", field.Key, field.Kind)
	}
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", name, field.Key)
	}

	data := components.ComponentData{
		Template:    r.templates,
		ControlID:   controlID(field.Key),
		Value:       value,
		Label:       sanitizeLabel(field.Label),
		Description: sanitizeLabel(field.Description),
		Partials:    r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", name, field.Key, err)
	}
	r.markUsed(name)

	return buildFieldMarkup(field, data, control.String()), nil
}

func (r *componentRenderer) markUsed(name string) {
	for _, existing := range r.used {
		if existing == name {
			return
		}
	}
	r.used = append(r.used, name)
}

func (r *componentRenderer) assets() (stylesheets, scripts []string) {
	return r.registry.Assets(r.used)
}

// buildFieldMarkup wraps a control with its label and description. Hidden
// fields keep their markup so the runtime can reveal them without a reload.
func buildFieldMarkup(field model.Field, data components.ComponentData, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`  <div class="`)
	builder.WriteString(string(ClassField))
	if cls := sanitizeClassList(field.CSSClass); cls != "" {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(cls))
	}
	builder.WriteString(`" data-key="`)
	builder.WriteString(html.EscapeString(field.Key))
	builder.WriteString(`" data-kind="`)
	builder.WriteString(html.EscapeString(string(field.Kind)))
	builder.WriteString(`"`)
	if field.RoleID != "" {
		builder.WriteString(` data-role-id="`)
		builder.WriteString(html.EscapeString(field.RoleID))
		builder.WriteString(`"`)
	}
	if field.Hidden {
		builder.WriteString(` hidden`)
	}
	builder.WriteString(">\n")

	if shouldRenderLabel(field) && data.Label != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(data.ControlID))
		builder.WriteString(`">`)
		builder.WriteString(data.Label)
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if data.Description != "" && field.Kind == model.FieldKindTextField {
		builder.WriteString(`    <small>`)
		builder.WriteString(data.Description)
		builder.WriteString("</small>\n")
	}

	builder.WriteString("  </div>\n")
	return builder.String()
}

// shouldRenderLabel reports whether the wrapper emits the label. Checkboxes
// and buttons carry their label inside the control.
func shouldRenderLabel(field model.Field) bool {
	if field.HideLabel {
		return false
	}
	switch field.Kind {
	case model.FieldKindSelect, model.FieldKindTextField:
		return true
	default:
		return false
	}
}
