package role

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-account/pkg/errors"
)

// InMemRoleRepository implements Repository using in-memory storage
type InMemRoleRepository struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]Role
}

// NewInMemRoleRepository creates a new in-memory role repository
func NewInMemRoleRepository() *InMemRoleRepository {
	return &InMemRoleRepository{
		roles: make(map[uuid.UUID]Role),
	}
}

// CreateRole creates a new role
func (r *InMemRoleRepository) CreateRole(ctx context.Context, params CreateRoleParams) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	role := Role{
		ID:        uuid.New(),
		Name:      params.Name,
		RoleKey:   params.RoleKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.roles[role.ID] = role
	return role, nil
}

// GetRole gets a role by id
func (r *InMemRoleRepository) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok || role.Deleted {
		return Role{}, errors.New(errors.ErrCodeRoleNotFound, "role not found").WithDetail("role_id", id.String())
	}
	return role, nil
}

// FindRoles returns all non-deleted roles
func (r *InMemRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Role
	for _, role := range r.roles {
		if !role.Deleted {
			result = append(result, role)
		}
	}
	return result, nil
}

// QueryByIDs returns the roles matching the given ids
func (r *InMemRoleRepository) QueryByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := r.roles[id]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

// UpdateRole updates a role's name and key
func (r *InMemRoleRepository) UpdateRole(ctx context.Context, params UpdateRoleParams) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[params.ID]
	if !ok || role.Deleted {
		return Role{}, errors.New(errors.ErrCodeRoleNotFound, "role not found").WithDetail("role_id", params.ID.String())
	}

	role.Name = params.Name
	role.RoleKey = params.RoleKey
	role.UpdatedAt = time.Now().UTC()
	r.roles[params.ID] = role
	return role, nil
}

// SetDisabled flips a role's disabled flag
func (r *InMemRoleRepository) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok || role.Deleted {
		return errors.New(errors.ErrCodeRoleNotFound, "role not found").WithDetail("role_id", id.String())
	}

	role.Disabled = disabled
	role.UpdatedAt = time.Now().UTC()
	r.roles[id] = role
	return nil
}

// DeleteRole soft deletes a role
func (r *InMemRoleRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return nil // Idempotent delete
	}

	role.Deleted = true
	role.UpdatedAt = time.Now().UTC()
	r.roles[id] = role
	return nil
}

// SeedRole adds a role directly (for testing/initialization)
func (r *InMemRoleRepository) SeedRole(role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.ID] = role
}
