package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/pkg/model"
)

// ChangeEvent is a single field change delivered by a rendering host. Value is
// the field's new value: the selected role ids for the select, the checked
// state for a checkbox, the text for a textfield. Data is the host's full
// captured form data; the engine writes to it only to force-uncheck checkboxes
// whose role was deselected.
type ChangeEvent struct {
	FieldKey string          `json:"key"`
	Kind     model.FieldKind `json:"type"`
	Value    any             `json:"value"`
	Data     map[string]any  `json:"data,omitempty"`
}

// Result reports what the host has to do after a change.
type Result struct {
	Rerender bool
	// SubmitRecomputed is set when the submit button's disabled flag was
	// re-derived from checkbox visibility.
	SubmitRecomputed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger used for debug tracing of transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine keeps a schema's visibility flags consistent with the captured
// selection:
//   - a checkbox/textfield pair is shown only while its role is selected
//   - the submit button is enabled while at least one checkbox is shown
//
// The engine is stateless; all state lives in the schema and event data.
type Engine struct {
	logger *zap.Logger
}

// New constructs an Engine.
func New(options ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// OnFieldChange applies ev to schema in place and reports whether the host
// should re-render. The caller owns schema exclusively for the duration of the
// call and is responsible for publishing it back to the host.
func (e *Engine) OnFieldChange(schema *model.Schema, ev ChangeEvent) Result {
	if schema == nil {
		return Result{}
	}

	switch ev.Kind {
	case model.FieldKindSelect:
		e.applySelection(schema, ev)
		e.recomputeSubmit(schema)
		return Result{Rerender: true, SubmitRecomputed: true}
	case model.FieldKindCheckbox:
		e.toggleTextField(schema, ev)
		return Result{Rerender: true}
	case model.FieldKindTextField:
		return Result{Rerender: true}
	default:
		return Result{}
	}
}

func (e *Engine) applySelection(schema *model.Schema, ev ChangeEvent) {
	selected := make(map[string]struct{})
	for _, id := range SelectedRoleIDs(ev.Value) {
		selected[id] = struct{}{}
	}

	for _, roleID := range schema.Pairs() {
		checkbox := schema.MustLookup(model.FieldKindCheckbox, roleID)
		if _, ok := selected[roleID]; ok {
			checkbox.Hidden = false
			continue
		}

		textField := schema.MustLookup(model.FieldKindTextField, roleID)
		checkbox.Hidden = true
		textField.Hidden = true
		if ev.Data != nil {
			ev.Data[checkbox.Key] = false
		}
	}

	e.logger.Debug("selection applied",
		zap.Int("selected", len(selected)),
		zap.Int("pairs", len(schema.Pairs())),
	)
}

func (e *Engine) toggleTextField(schema *model.Schema, ev ChangeEvent) {
	roleID, ok := checkboxRoleID(schema, ev)
	if !ok {
		panic(fmt.Sprintf("rules: checkbox event %q does not identify a role", ev.FieldKey))
	}
	textField := schema.MustLookup(model.FieldKindTextField, roleID)
	textField.Hidden = !textField.Hidden

	e.logger.Debug("textfield toggled",
		zap.String("role_id", roleID),
		zap.Bool("hidden", textField.Hidden),
	)
}

func (e *Engine) recomputeSubmit(schema *model.Schema) {
	submit, ok := schema.Submit()
	if !ok {
		return
	}
	submit.Disabled = !schema.AnyCheckboxVisible()
}

// checkboxRoleID resolves the role a checkbox event refers to. The schema
// field named by the event key is authoritative, so role ids that do not
// survive key parsing still resolve. Hosts that only send the checkbox value
// (its key or bare role id) are accepted as a fallback.
func checkboxRoleID(schema *model.Schema, ev ChangeEvent) (string, bool) {
	if field, ok := schema.Field(ev.FieldKey); ok && field.Kind == model.FieldKindCheckbox {
		return field.RoleID, true
	}
	if key, err := model.ParseFieldKey(ev.FieldKey); err == nil && key.Kind == model.FieldKindCheckbox {
		return key.RoleID, true
	}
	raw, ok := ev.Value.(string)
	if !ok || raw == "" {
		return "", false
	}
	if key, err := model.ParseFieldKey(raw); err == nil {
		return key.RoleID, true
	}
	return raw, true
}

// SelectedRoleIDs normalises a select value into role ids. Hosts deliver
// []string, JSON-decoded []any, or a single string; anything else is an empty
// selection.
func SelectedRoleIDs(value any) []string {
	switch v := value.(type) {
	case []string:
		return append(make([]string, 0, len(v)), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
