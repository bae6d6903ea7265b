// Package model defines the role form schema and the pure builder that derives
// it from entity records. Checkbox and textfield keys follow the
// `<role_id>_<kind>` convention; FieldKey is the typed view of that convention
// and the only code that formats or parses it. The lookup helpers in
// registry.go return pointers into the schema so the rule engine can flip
// Hidden/Disabled flags in place without changing the field order.
package model
