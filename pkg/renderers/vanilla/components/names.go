package components

import "github.com/goliatone/go-roleform/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameSelect    = "select"
	NameCheckbox  = "checkbox"
	NameTextField = "textfield"
	NameButton    = "button"
)

// NameFor maps a field kind to its default component.
func NameFor(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindSelect:
		return NameSelect
	case model.FieldKindCheckbox:
		return NameCheckbox
	case model.FieldKindTextField:
		return NameTextField
	case model.FieldKindButton:
		return NameButton
	default:
		return ""
	}
}

// PartialKey returns the go-theme template key that can override a component.
func PartialKey(name string) string {
	return "forms." + name
}
