// Package entity loads the role records a form is generated from. Datasets are
// JSON or YAML documents holding either a bare array of entities or a
// `{"mappings": [...]}` envelope; both shapes are checked against an embedded
// JSON Schema before decoding, and role_id uniqueness is enforced because the
// form builder derives field keys from it.
package entity
