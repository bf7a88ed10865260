package role

import (
	"context"

	"github.com/google/uuid"
)

// Lookup is the read-only collaborator the account core depends on. Role
// ownership lives with RoleService; the account packages only resolve ids
// to roles through this interface.
type Lookup interface {
	// QueryByIDs returns the roles matching the given ids. Ids that match
	// no role are silently dropped.
	QueryByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)
}

// Repository defines the interface for role storage
type Repository interface {
	CreateRole(ctx context.Context, params CreateRoleParams) (Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (Role, error)
	FindRoles(ctx context.Context) ([]Role, error)
	QueryByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)
	UpdateRole(ctx context.Context, params UpdateRoleParams) (Role, error)
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
}
