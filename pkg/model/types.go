package model

// FieldKind is the tagged variant over the widget kinds a role form uses. The
// string values double as key suffixes (`<role_id>_<kind>`).
type FieldKind string

const (
	FieldKindSelect    FieldKind = "select"
	FieldKindCheckbox  FieldKind = "checkbox"
	FieldKindTextField FieldKind = "textfield"
	FieldKindButton    FieldKind = "button"
)

// Valid reports whether k is one of the known kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindSelect, FieldKindCheckbox, FieldKindTextField, FieldKindButton:
		return true
	default:
		return false
	}
}

const (
	// SelectKey is the key of the multi-select field and of the selected
	// role ids inside captured data and submission payloads.
	SelectKey = "values_select"
	// SubmitKey is the key of the submit button.
	SubmitKey = "submit"
)

// Option is a single select choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one entry in a Schema. Only the fields relevant to Kind are
// populated; the rest keep their zero values so JSON snapshots stay small.
type Field struct {
	Key         string    `json:"key"`
	Kind        FieldKind `json:"type"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Description string    `json:"description,omitempty"`
	RoleID      string    `json:"roleId,omitempty"`
	Hidden      bool      `json:"hidden"`
	Disabled    bool      `json:"disabled,omitempty"`
	Multiple    bool      `json:"multiple,omitempty"`
	HideLabel   bool      `json:"hideLabel,omitempty"`
	CSSClass    string    `json:"customClass,omitempty"`
	Default     any       `json:"defaultValue,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// Visible reports whether the field is currently shown.
func (f Field) Visible() bool {
	return !f.Hidden
}

// Schema is the ordered form definition: one select, a checkbox/textfield pair
// per entity, then the submit button. Its structure is fixed once built; only
// the Hidden and Disabled flags change afterwards.
type Schema struct {
	Title  string  `json:"title,omitempty"`
	Fields []Field `json:"components"`
}

// Clone returns a deep copy of the schema.
func (s Schema) Clone() Schema {
	out := Schema{Title: s.Title}
	if s.Fields == nil {
		return out
	}
	out.Fields = make([]Field, len(s.Fields))
	for i, field := range s.Fields {
		if field.Options != nil {
			field.Options = append([]Option(nil), field.Options...)
		}
		if selected, ok := field.Default.([]string); ok {
			field.Default = append(make([]string, 0, len(selected)), selected...)
		}
		out.Fields[i] = field
	}
	return out
}

// Defaults returns the initial captured data implied by the schema: an empty
// selection, unchecked checkboxes and textfields seeded with their default.
func (s Schema) Defaults() map[string]any {
	data := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		switch field.Kind {
		case FieldKindSelect:
			data[field.Key] = []string{}
		case FieldKindCheckbox:
			checked, _ := field.Default.(bool)
			data[field.Key] = checked
		case FieldKindTextField:
			text, _ := field.Default.(string)
			data[field.Key] = text
		}
	}
	return data
}
