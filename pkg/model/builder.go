package model

import "github.com/goliatone/go-roleform/pkg/entity"

const (
	selectLabel       = "Select"
	selectPlaceholder = "These are a few of your Select..."
	textFieldLabel    = "textfield"
	submitLabel       = "Submit"

	checkboxClass  = "form-checkbox"
	textFieldClass = "form-textfield"
	submitClass    = "form-submit-button"
)

// Builder converts an entity list into a form schema.
type Builder interface {
	Build(entities []entity.Entity) (Schema, error)
}

// BuilderFunc adapts a function into a Builder.
type BuilderFunc func(entities []entity.Entity) (Schema, error)

// Build calls the underlying function.
func (fn BuilderFunc) Build(entities []entity.Entity) (Schema, error) {
	return fn(entities)
}

// NewBuilder returns the default Builder. It never fails; the error return
// lets callers swap in builders that can.
func NewBuilder() Builder {
	return BuilderFunc(func(entities []entity.Entity) (Schema, error) {
		return BuildSchema(entities), nil
	})
}

// BuildSchema lays out the select, one hidden checkbox/textfield pair per
// entity in input order, and the disabled submit button. An empty list yields
// a select without options whose submit button can never be enabled.
func BuildSchema(entities []entity.Entity) Schema {
	fields := make([]Field, 0, len(entities)*2+2)

	options := make([]Option, 0, len(entities))
	for _, e := range entities {
		options = append(options, Option{Value: e.RoleID, Label: e.Role})
	}
	fields = append(fields, Field{
		Key:         SelectKey,
		Kind:        FieldKindSelect,
		Label:       selectLabel,
		Placeholder: selectPlaceholder,
		Multiple:    true,
		Options:     options,
	})

	for _, e := range entities {
		fields = append(fields,
			Field{
				Key:      KeyFor(e.RoleID, FieldKindCheckbox).String(),
				Kind:     FieldKindCheckbox,
				Label:    e.RoleID,
				RoleID:   e.RoleID,
				Hidden:   true,
				CSSClass: checkboxClass,
				Default:  false,
			},
			Field{
				Key:         KeyFor(e.RoleID, FieldKindTextField).String(),
				Kind:        FieldKindTextField,
				Label:       textFieldLabel,
				Description: e.Role,
				RoleID:      e.RoleID,
				Hidden:      true,
				HideLabel:   true,
				CSSClass:    textFieldClass,
				Default:     e.RoleDescription,
			},
		)
	}

	fields = append(fields, Field{
		Key:      SubmitKey,
		Kind:     FieldKindButton,
		Label:    submitLabel,
		Disabled: true,
		CSSClass: submitClass,
	})

	return Schema{Fields: fields}
}
