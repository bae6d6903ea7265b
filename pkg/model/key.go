package model

import (
	"fmt"
	"strings"
)

// FieldKey identifies a paired field by role id and kind. String and
// ParseFieldKey are the only places the flat `<role_id>_<kind>` form is built
// or taken apart.
type FieldKey struct {
	RoleID string
	Kind   FieldKind
}

// KeyFor returns the key of the kind field paired with roleID.
func KeyFor(roleID string, kind FieldKind) FieldKey {
	return FieldKey{RoleID: roleID, Kind: kind}
}

// String renders the flat key used by hosts and captured data.
func (k FieldKey) String() string {
	return k.RoleID + "_" + string(k.Kind)
}

// Pair returns the key of the sibling field (checkbox <-> textfield).
func (k FieldKey) Pair() FieldKey {
	switch k.Kind {
	case FieldKindCheckbox:
		return FieldKey{RoleID: k.RoleID, Kind: FieldKindTextField}
	case FieldKindTextField:
		return FieldKey{RoleID: k.RoleID, Kind: FieldKindCheckbox}
	default:
		return k
	}
}

// ParseFieldKey splits a flat key into role id and kind. Only checkbox and
// textfield keys carry a role id; the kind is matched on the last underscore
// so role ids may themselves contain underscores.
func ParseFieldKey(raw string) (FieldKey, error) {
	idx := strings.LastIndex(raw, "_")
	if idx <= 0 || idx == len(raw)-1 {
		return FieldKey{}, fmt.Errorf("model: key %q has no role id suffix", raw)
	}
	kind := FieldKind(raw[idx+1:])
	switch kind {
	case FieldKindCheckbox, FieldKindTextField:
	default:
		return FieldKey{}, fmt.Errorf("model: key %q has unsupported kind %q", raw, kind)
	}
	return FieldKey{RoleID: raw[:idx], Kind: kind}, nil
}
