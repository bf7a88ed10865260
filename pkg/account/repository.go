package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-account/pkg/password"
)

// AccountRepository defines the interface for account storage.
//
// Login-name uniqueness is enforced by the store (unique constraint in the
// PostgreSQL implementation); the service-level availability check is
// advisory pre-validation only and is racy under concurrent creates.
type AccountRepository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	GetUserWithRoles(ctx context.Context, id uuid.UUID) (UserWithRoles, error)
	FindUsersWithRoles(ctx context.Context) ([]UserWithRoles, error)
	FindUserByLoginName(ctx context.Context, loginName string) (User, error)

	// UpdateUserPartial applies only the non-nil fields of params and
	// stamps the update timestamp
	UpdateUserPartial(ctx context.Context, params UpdateUserParams) (User, error)

	// UpdateCredential overwrites the stored hash, salt, and version, and
	// stamps the update timestamp
	UpdateCredential(ctx context.Context, id uuid.UUID, cred password.Credential) error

	// RecordLogin stamps the caller-supplied IP and time onto the user
	RecordLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error

	// ReplaceUserRoles atomically replaces the user's role links with the
	// given set; a concurrent reader never observes the empty intermediate
	// state
	ReplaceUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error

	// DeleteUserRoles removes all role links of a user
	DeleteUserRoles(ctx context.Context, userID uuid.UUID) error

	// DeleteUser soft deletes a user
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
