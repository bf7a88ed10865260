package account

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/menu"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/role"
)

// AccountService provides account management and permission resolution.
// Collaborators are constructor-injected: the store, the role lookup, and
// the menu permission lookup.
type AccountService struct {
	repo        AccountRepository
	roles       role.Lookup
	menus       menu.PermissionLookup
	credentials *password.CredentialManager
}

// Option configures an AccountService
type Option func(*AccountService)

// WithCredentialManager overrides the default credential manager
func WithCredentialManager(cm *password.CredentialManager) Option {
	return func(s *AccountService) {
		s.credentials = cm
	}
}

// NewAccountService creates a new account service
func NewAccountService(repo AccountRepository, roles role.Lookup, menus menu.PermissionLookup, opts ...Option) *AccountService {
	s := &AccountService{
		repo:        repo,
		roles:       roles,
		menus:       menus,
		credentials: password.NewCredentialManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser creates a user with a derived credential and links the given
// roles. The availability check is advisory; the store's unique constraint
// is what actually guarantees login-name uniqueness under concurrency.
func (s *AccountService) CreateUser(ctx context.Context, req CreateUserRequest) (UserWithRoles, error) {
	if req.LoginName == "" {
		return UserWithRoles{}, errors.InvalidInput("login_name", "cannot be empty")
	}

	available, err := s.IsLoginNameAvailable(ctx, req.LoginName)
	if err != nil {
		return UserWithRoles{}, err
	}
	if !available {
		return UserWithRoles{}, errors.New(errors.ErrCodeUserAlreadyExists, "login name already taken").
			WithDetail("login_name", req.LoginName)
	}

	cred, err := s.credentials.CreateCredential(req.Password)
	if err != nil {
		return UserWithRoles{}, err
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		LoginName:  req.LoginName,
		Credential: cred,
	})
	if err != nil {
		return UserWithRoles{}, fmt.Errorf("failed to create user: %w", err)
	}

	if len(req.RoleIDs) > 0 {
		slog.Info("Linking roles to new user", "userId", user.ID, "roleIds", req.RoleIDs)
		if err := s.ReplaceRoles(ctx, user.ID, req.RoleIDs); err != nil {
			return UserWithRoles{}, err
		}
	}

	return s.repo.GetUserWithRoles(ctx, user.ID)
}

// GetUser gets a user with roles by id
func (s *AccountService) GetUser(ctx context.Context, userID uuid.UUID) (UserWithRoles, error) {
	return s.repo.GetUserWithRoles(ctx, userID)
}

// FindUsers returns all users with their roles
func (s *AccountService) FindUsers(ctx context.Context) ([]UserWithRoles, error) {
	return s.repo.FindUsersWithRoles(ctx)
}

// UpdateUser applies a partial update (nil fields untouched) and, when a
// non-nil role list is supplied, replaces the user's role links
func (s *AccountService) UpdateUser(ctx context.Context, req UpdateUserRequest) (UserWithRoles, error) {
	params := UpdateUserParams{}
	if err := copier.Copy(&params, req); err != nil {
		return UserWithRoles{}, errors.InternalWrap(err, "failed to map update request")
	}

	if _, err := s.repo.UpdateUserPartial(ctx, params); err != nil {
		return UserWithRoles{}, err
	}

	if req.RoleIDs != nil {
		if err := s.ReplaceRoles(ctx, req.ID, req.RoleIDs); err != nil {
			return UserWithRoles{}, err
		}
	}

	return s.repo.GetUserWithRoles(ctx, req.ID)
}

// ResetPassword derives a fresh credential (new salt, new hash) for the
// user and persists it
func (s *AccountService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	cred, err := s.credentials.CreateCredential(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdateCredential(ctx, userID, cred)
}

// VerifyPassword checks a plaintext password against the user's stored
// credential. A mismatch is (false, nil).
func (s *AccountService) VerifyPassword(ctx context.Context, userID uuid.UUID, plaintext string) (bool, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.credentials.Verify(plaintext, user.Credential)
}

// ReplaceRoles replaces the user's role links with the roles matching the
// given ids. Ids that match no role are dropped, mirroring the lookup
// semantics; the repository applies the replacement atomically.
func (s *AccountService) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	matched, err := s.roles.QueryByIDs(ctx, roleIDs)
	if err != nil {
		return fmt.Errorf("failed to look up roles: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(matched))
	for _, r := range matched {
		ids = append(ids, r.ID)
	}

	if len(ids) < len(roleIDs) {
		slog.Warn("Some role ids matched no role", "userId", userID, "requested", len(roleIDs), "matched", len(ids))
	}

	return s.repo.ReplaceUserRoles(ctx, userID, ids)
}

// ClearRoles removes all role links of a user
func (s *AccountService) ClearRoles(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteUserRoles(ctx, userID)
}

// RelinkRolesFromCSV is the legacy adapter for callers that still carry a
// comma-separated role-id string. A blank csv is a no-op (the legacy system
// could not express "remove all roles" this way; use ClearRoles for that).
func (s *AccountService) RelinkRolesFromCSV(ctx context.Context, userID uuid.UUID, csv string) error {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	parts := strings.Split(csv, ",")
	roleIDs := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return errors.InvalidInput("role_ids", fmt.Sprintf("malformed role id %q", part))
		}
		roleIDs = append(roleIDs, id)
	}

	return s.ReplaceRoles(ctx, userID, roleIDs)
}

// ResolveRoleKeys returns the role keys of the user's active roles as a
// deduplicated sorted set. Disabled or deleted roles are excluded even if
// still linked.
func (s *AccountService) ResolveRoleKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	uwr, err := s.repo.GetUserWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, r := range uwr.Roles {
		if r.Active() && r.RoleKey != "" {
			set[r.RoleKey] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// ResolvePermissions returns the user's menu-derived permission strings as
// a deduplicated sorted set, blanks dropped
func (s *AccountService) ResolvePermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	perms, err := s.menus.GetPermsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up menu perms: %w", err)
	}

	set := make(map[string]struct{})
	for _, perm := range perms {
		if strings.TrimSpace(perm) != "" {
			set[perm] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// ResolveRoleGroupLabel returns the user's role names joined with a comma,
// in link order, or "" for a user with no roles
func (s *AccountService) ResolveRoleGroupLabel(ctx context.Context, userID uuid.UUID) (string, error) {
	uwr, err := s.repo.GetUserWithRoles(ctx, userID)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(uwr.Roles))
	for _, r := range uwr.Roles {
		names = append(names, r.Name)
	}
	return strings.Join(names, ","), nil
}

// IsLoginNameAvailable reports whether no user holds the exact login name.
// Check-then-act only: concurrent creates can both see true, and the
// store's unique constraint is the authoritative guard.
func (s *AccountService) IsLoginNameAvailable(ctx context.Context, loginName string) (bool, error) {
	_, err := s.repo.FindUserByLoginName(ctx, loginName)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeUserNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// RecordLogin stamps the caller-supplied IP and time onto the user record.
// IP and clock come from the host's request context, not from this core.
func (s *AccountService) RecordLogin(ctx context.Context, userID uuid.UUID, ip string, at time.Time) error {
	return s.repo.RecordLogin(ctx, userID, ip, at)
}

// DeleteUser soft deletes a user
func (s *AccountService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteUser(ctx, userID)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
