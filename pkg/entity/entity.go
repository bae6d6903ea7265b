package entity

import (
	"context"
	"errors"
)

// Entity is a single role record. RoleID doubles as the suffix for the
// generated checkbox/textfield keys, so it must be unique within a dataset.
type Entity struct {
	Role            string `json:"role" yaml:"role"`
	RoleID          string `json:"role_id" yaml:"role_id"`
	RoleDescription string `json:"role_description" yaml:"role_description"`
	CreatedDate     string `json:"created_date" yaml:"created_date"`
}

var (
	// ErrDuplicateRoleID is returned when two entities share a role_id.
	ErrDuplicateRoleID = errors.New("entity: duplicate role_id")
	// ErrEmptyRoleID is returned for an entity without a role_id.
	ErrEmptyRoleID = errors.New("entity: empty role_id")
)

// Source yields the ordered entity list a form is built from.
type Source interface {
	Entities(ctx context.Context) ([]Entity, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context) ([]Entity, error)

// Entities delegates to the underlying function.
func (fn SourceFunc) Entities(ctx context.Context) ([]Entity, error) {
	return fn(ctx)
}

// Static is an in-memory Source. Entities are returned in slice order.
type Static []Entity

// Entities returns a copy of the static list.
func (s Static) Entities(ctx context.Context) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Entity, len(s))
	copy(out, s)
	return out, nil
}
