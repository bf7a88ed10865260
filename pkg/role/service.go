package role

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendant/simple-account/pkg/errors"
)

// RoleService provides methods for role management. It also satisfies the
// Lookup interface consumed by the account packages.
type RoleService struct {
	repo Repository
}

// NewRoleService creates a new role service
func NewRoleService(repo Repository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

// CreateRole adds a new role
func (s *RoleService) CreateRole(ctx context.Context, name, roleKey string) (Role, error) {
	if name == "" {
		return Role{}, errors.InvalidInput("name", "cannot be empty")
	}
	if roleKey == "" {
		return Role{}, errors.InvalidInput("role_key", "cannot be empty")
	}
	return s.repo.CreateRole(ctx, CreateRoleParams{Name: name, RoleKey: roleKey})
}

// UpdateRole modifies an existing role
func (s *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, name, roleKey string) (Role, error) {
	if name == "" {
		return Role{}, errors.InvalidInput("name", "cannot be empty")
	}
	return s.repo.UpdateRole(ctx, UpdateRoleParams{ID: id, Name: name, RoleKey: roleKey})
}

// GetRole retrieves a role by id
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// FindRoles returns all roles
func (s *RoleService) FindRoles(ctx context.Context) ([]Role, error) {
	return s.repo.FindRoles(ctx)
}

// QueryByIDs implements Lookup
func (s *RoleService) QueryByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error) {
	return s.repo.QueryByIDs(ctx, ids)
}

// DisableRole marks a role disabled without deleting it
func (s *RoleService) DisableRole(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetDisabled(ctx, id, true)
}

// EnableRole clears a role's disabled flag
func (s *RoleService) EnableRole(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetDisabled(ctx, id, false)
}

// DeleteRole soft deletes a role
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRole(ctx, id)
}
