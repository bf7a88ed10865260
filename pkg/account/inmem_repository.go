package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/role"
)

// InMemAccountRepository implements AccountRepository using in-memory
// storage. Role records are resolved through the injected lookup so the
// repository sees the same role state as the rest of the system.
type InMemAccountRepository struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]User
	userRoles map[uuid.UUID][]uuid.UUID // userID -> roleIDs, in link order
	roles     role.Lookup
}

// NewInMemAccountRepository creates a new in-memory account repository
func NewInMemAccountRepository(roles role.Lookup) *InMemAccountRepository {
	return &InMemAccountRepository{
		users:     make(map[uuid.UUID]User),
		userRoles: make(map[uuid.UUID][]uuid.UUID),
		roles:     roles,
	}
}

// CreateUser creates a new user
func (r *InMemAccountRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.DeletedAt == nil && existing.LoginName == params.LoginName {
			return User{}, errors.New(errors.ErrCodeUserAlreadyExists, "login name already taken").
				WithDetail("login_name", params.LoginName)
		}
	}

	now := time.Now().UTC()
	user := User{
		ID:         uuid.New(),
		LoginName:  params.LoginName,
		Credential: params.Credential,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	r.users[user.ID] = user
	r.userRoles[user.ID] = []uuid.UUID{}
	return user, nil
}

// GetUser gets a user by id
func (r *InMemAccountRepository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getUser(id)
}

func (r *InMemAccountRepository) getUser(id uuid.UUID) (User, error) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return User{}, errors.New(errors.ErrCodeUserNotFound, "user not found").WithDetail("user_id", id.String())
	}
	return user, nil
}

// GetUserWithRoles gets a user with their role links populated
func (r *InMemAccountRepository) GetUserWithRoles(ctx context.Context, id uuid.UUID) (UserWithRoles, error) {
	r.mu.RLock()
	user, err := r.getUser(id)
	roleIDs := append([]uuid.UUID(nil), r.userRoles[id]...)
	r.mu.RUnlock()
	if err != nil {
		return UserWithRoles{}, err
	}

	roles, err := r.roles.QueryByIDs(ctx, roleIDs)
	if err != nil {
		return UserWithRoles{}, err
	}

	return UserWithRoles{
		User:  user,
		Roles: roles,
	}, nil
}

// FindUsersWithRoles returns all non-deleted users with their roles
func (r *InMemAccountRepository) FindUsersWithRoles(ctx context.Context) ([]UserWithRoles, error) {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.users))
	for id, user := range r.users {
		if user.DeletedAt == nil {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	result := make([]UserWithRoles, 0, len(ids))
	for _, id := range ids {
		uwr, err := r.GetUserWithRoles(ctx, id)
		if err != nil {
			continue // deleted between the two reads
		}
		result = append(result, uwr)
	}
	return result, nil
}

// FindUserByLoginName finds a user by exact login name
func (r *InMemAccountRepository) FindUserByLoginName(ctx context.Context, loginName string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.DeletedAt == nil && user.LoginName == loginName {
			return user, nil
		}
	}
	return User{}, errors.New(errors.ErrCodeUserNotFound, "user not found").WithDetail("login_name", loginName)
}

// UpdateUserPartial applies only the non-nil fields of params
func (r *InMemAccountRepository) UpdateUserPartial(ctx context.Context, params UpdateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.getUser(params.ID)
	if err != nil {
		return User{}, err
	}

	if params.LoginName != nil {
		user.LoginName = *params.LoginName
	}
	if params.LoginIP != nil {
		user.LoginIP = *params.LoginIP
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[params.ID] = user
	return user, nil
}

// UpdateCredential overwrites the stored credential
func (r *InMemAccountRepository) UpdateCredential(ctx context.Context, id uuid.UUID, cred password.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.getUser(id)
	if err != nil {
		return err
	}

	user.Credential = cred
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return nil
}

// RecordLogin stamps the caller-supplied IP and time onto the user
func (r *InMemAccountRepository) RecordLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.getUser(id)
	if err != nil {
		return err
	}

	loginAt := at
	user.LoginIP = ip
	user.LoginAt = &loginAt
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return nil
}

// ReplaceUserRoles replaces the user's role links under a single lock
func (r *InMemAccountRepository) ReplaceUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.getUser(userID); err != nil {
		return err
	}

	r.userRoles[userID] = append([]uuid.UUID(nil), roleIDs...)
	return nil
}

// DeleteUserRoles removes all role links of a user
func (r *InMemAccountRepository) DeleteUserRoles(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userRoles[userID] = []uuid.UUID{}
	return nil
}

// DeleteUser soft deletes a user
func (r *InMemAccountRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil // Idempotent delete
	}

	now := time.Now().UTC()
	user.DeletedAt = &now
	r.users[id] = user
	return nil
}
