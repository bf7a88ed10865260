package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/role"
)

// User represents a user account. Credential is the stored (hash, salt,
// version) triple; the plaintext password never appears on the record.
type User struct {
	ID         uuid.UUID           `json:"id"`
	LoginName  string              `json:"login_name"`
	Credential password.Credential `json:"credential"`
	LoginIP    string              `json:"login_ip,omitempty"`
	LoginAt    *time.Time          `json:"login_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	DeletedAt  *time.Time          `json:"deleted_at,omitempty"`
}

// UserWithRoles represents a user with their linked roles populated. The
// link set may include disabled or deleted roles; permission resolution
// filters those with role.Active.
type UserWithRoles struct {
	User
	Roles []role.Role `json:"roles"`
}

// CreateUserParams contains parameters for inserting a new user
type CreateUserParams struct {
	LoginName  string              `json:"login_name"`
	Credential password.Credential `json:"credential"`
}

// UpdateUserParams contains parameters for a partial user update. Nil
// pointer fields are left untouched (ignore-null semantics).
type UpdateUserParams struct {
	ID        uuid.UUID `json:"id"`
	LoginName *string   `json:"login_name,omitempty"`
	LoginIP   *string   `json:"login_ip,omitempty"`
}

// CreateUserRequest is the service-level input for account creation
type CreateUserRequest struct {
	LoginName string      `json:"login_name"`
	Password  string      `json:"password"`
	RoleIDs   []uuid.UUID `json:"role_ids,omitempty"`
}

// UpdateUserRequest is the service-level input for account updates. Nil
// pointers mean "no change"; a nil RoleIDs slice leaves the role links
// untouched, while a non-nil one replaces them (empty clears).
type UpdateUserRequest struct {
	ID        uuid.UUID   `json:"id"`
	LoginName *string     `json:"login_name,omitempty"`
	LoginIP   *string     `json:"login_ip,omitempty"`
	RoleIDs   []uuid.UUID `json:"role_ids,omitempty"`
}
