// Package account provides user-account management: credential handling,
// user-role relationship maintenance, and permission resolution.
//
// # Overview
//
// The package provides:
//   - Account lifecycle (create, partial update, soft delete)
//   - Password reset and verification via pkg/password
//   - Role relink as three explicit operations: ReplaceRoles, ClearRoles,
//     and the legacy csv adapter RelinkRolesFromCSV
//   - Permission resolution: role keys of active roles, menu-derived
//     permission strings, and the role group label
//   - An explicit caching decorator (CachedResolver) over the resolve
//     operations, invalidated on relink
//
// # Basic Usage
//
//	roleRepo := role.NewInMemRoleRepository()
//	roleSvc := role.NewRoleService(roleRepo)
//	repo := account.NewInMemAccountRepository(roleSvc)
//	menus := menu.NewInMemPermissionLookup()
//
//	svc := account.NewAccountService(repo, roleSvc, menus)
//
//	user, err := svc.CreateUser(ctx, account.CreateUserRequest{
//		LoginName: "alice",
//		Password:  "secret123",
//		RoleIDs:   []uuid.UUID{adminRole.ID},
//	})
//
//	keys, err := svc.ResolveRoleKeys(ctx, user.ID)
//
// # Known limitations
//
// The login-name availability check and the relink are check-then-act;
// concurrent callers can interleave. The PostgreSQL repository carries the
// unique constraint and wraps the relink in a transaction, which is what
// actually holds the invariants under concurrency. Neither the in-memory
// nor the PostgreSQL repository does optimistic or pessimistic locking
// beyond that.
//
// Cache invalidation only happens for mutations routed through
// CachedResolver; hosts that mutate role links through a bare
// AccountService while also reading through a CachedResolver will serve
// stale permission sets until the TTL expires.
package account
