package model

import "fmt"

// Field returns a pointer to the field with the given flat key.
func (s *Schema) Field(key string) (*Field, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Lookup finds the kind field paired with roleID.
func (s *Schema) Lookup(kind FieldKind, roleID string) (*Field, bool) {
	return s.Field(KeyFor(roleID, kind).String())
}

// MustLookup is Lookup for callers that rely on the pairing invariant. A
// missing pair means the schema was not produced by BuildSchema.
func (s *Schema) MustLookup(kind FieldKind, roleID string) *Field {
	field, ok := s.Lookup(kind, roleID)
	if !ok {
		panic(fmt.Sprintf("model: schema has no %s field for role %q", kind, roleID))
	}
	return field
}

// Select returns the multi-select field.
func (s *Schema) Select() (*Field, bool) {
	return s.Field(SelectKey)
}

// Submit returns the submit button.
func (s *Schema) Submit() (*Field, bool) {
	return s.Field(SubmitKey)
}

// Pairs lists role ids in schema order, one per checkbox/textfield pair.
func (s *Schema) Pairs() []string {
	if s == nil {
		return nil
	}
	var ids []string
	for _, field := range s.Fields {
		if field.Kind == FieldKindCheckbox {
			ids = append(ids, field.RoleID)
		}
	}
	return ids
}

// AnyCheckboxVisible reports whether at least one checkbox is shown.
func (s *Schema) AnyCheckboxVisible() bool {
	if s == nil {
		return false
	}
	for _, field := range s.Fields {
		if field.Kind == FieldKindCheckbox && field.Visible() {
			return true
		}
	}
	return false
}
