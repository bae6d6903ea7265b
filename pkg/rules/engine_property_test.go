package rules_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-roleform/pkg/entity"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/rules"
)

const propertyRoles = 6

func propertyEntities() []entity.Entity {
	out := make([]entity.Entity, 0, propertyRoles)
	for i := 0; i < propertyRoles; i++ {
		id := fmt.Sprintf("role%d", i)
		out = append(out, entity.Entity{Role: id, RoleID: id, RoleDescription: "desc " + id})
	}
	return out
}

func selectionFromMask(mask []bool) []string {
	var out []string
	for i, on := range mask {
		if on {
			out = append(out, fmt.Sprintf("role%d", i))
		}
	}
	return out
}

// Visible checkboxes always equal the latest selection, deselected pairs are
// hidden and unchecked, and submit is disabled iff nothing is visible.
func TestProperty_SelectionDrivesVisibility(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("visible checkboxes equal the selection", prop.ForAll(
		func(first, second []bool, checks []bool) bool {
			schema := model.BuildSchema(propertyEntities())
			engine := rules.New()
			data := schema.Defaults()

			engine.OnFieldChange(&schema, rules.ChangeEvent{Kind: model.FieldKindSelect, FieldKey: model.SelectKey, Value: selectionFromMask(first), Data: data})
			for i, checked := range checks {
				if !checked || i >= len(first) || !first[i] {
					continue
				}
				key := model.KeyFor(fmt.Sprintf("role%d", i), model.FieldKindCheckbox).String()
				data[key] = true
				engine.OnFieldChange(&schema, rules.ChangeEvent{Kind: model.FieldKindCheckbox, FieldKey: key, Value: true, Data: data})
			}

			selection := selectionFromMask(second)
			engine.OnFieldChange(&schema, rules.ChangeEvent{Kind: model.FieldKindSelect, FieldKey: model.SelectKey, Value: selection, Data: data})

			selected := make(map[string]bool, len(selection))
			for _, id := range selection {
				selected[id] = true
			}

			anyVisible := false
			for _, roleID := range schema.Pairs() {
				checkbox := schema.MustLookup(model.FieldKindCheckbox, roleID)
				textField := schema.MustLookup(model.FieldKindTextField, roleID)
				if checkbox.Visible() != selected[roleID] {
					return false
				}
				if !selected[roleID] {
					if data[checkbox.Key] != false || textField.Visible() {
						return false
					}
				}
				anyVisible = anyVisible || checkbox.Visible()
			}

			submit, _ := schema.Submit()
			return submit.Disabled == !anyVisible
		},
		gen.SliceOfN(propertyRoles, gen.Bool()),
		gen.SliceOfN(propertyRoles, gen.Bool()),
		gen.SliceOfN(propertyRoles, gen.Bool()),
	))

	properties.TestingRun(t)
}

func TestProperty_CheckboxToggleIsInvolution(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("toggling a checkbox twice restores its textfield", prop.ForAll(
		func(index int) bool {
			schema := model.BuildSchema(propertyEntities())
			engine := rules.New()
			roleID := fmt.Sprintf("role%d", index)
			key := model.KeyFor(roleID, model.FieldKindCheckbox).String()

			engine.OnFieldChange(&schema, rules.ChangeEvent{Kind: model.FieldKindSelect, Value: []string{roleID}})
			text := schema.MustLookup(model.FieldKindTextField, roleID)
			before := text.Hidden

			engine.OnFieldChange(&schema, rules.ChangeEvent{Kind: model.FieldKindCheckbox, FieldKey: key, Value: true})
			flipped := text.Hidden != before
			engine.OnFieldChange(&schema, rules.ChangeEvent{Kind: model.FieldKindCheckbox, FieldKey: key, Value: false})
			return flipped && text.Hidden == before
		},
		gen.IntRange(0, propertyRoles-1),
	))

	properties.TestingRun(t)
}
