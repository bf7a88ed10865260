package role

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a role in the system. RoleKey is the permission code a
// role grants; Disabled and Deleted are independent flags, both of which
// must be unset for the role to contribute to a user's permissions.
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	RoleKey   string    `json:"role_key"`
	Disabled  bool      `json:"disabled"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the role contributes to permission resolution
func (r Role) Active() bool {
	return !r.Disabled && !r.Deleted
}

// CreateRoleParams contains parameters for creating a new role
type CreateRoleParams struct {
	Name    string `json:"name"`
	RoleKey string `json:"role_key"`
}

// UpdateRoleParams contains parameters for updating a role
type UpdateRoleParams struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	RoleKey string    `json:"role_key"`
}
