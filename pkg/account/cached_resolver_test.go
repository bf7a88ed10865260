package account

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-account/pkg/cache"
	"github.com/tendant/simple-account/pkg/role"
)

type resolverFixture struct {
	*serviceFixture
	resolver *CachedResolver
	cache    *cache.InMemCache
}

func setupCachedResolver(t *testing.T) *resolverFixture {
	f := setupAccountService(t)
	c := cache.NewInMemCache()
	return &resolverFixture{
		serviceFixture: f,
		resolver:       NewCachedResolver(f.svc, c),
		cache:          c,
	}
}

func TestCachedResolver_ResolveRoleKeys(t *testing.T) {
	f := setupCachedResolver(t)
	ctx := context.Background()

	admin := f.mustCreateRole(t, "Admin", "sys:admin")
	user, err := f.svc.CreateUser(ctx, CreateUserRequest{
		LoginName: "alice",
		Password:  "secret123",
		RoleIDs:   []uuid.UUID{admin.ID},
	})
	require.NoError(t, err)

	keys, err := f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin"}, keys)

	// Mutate role links behind the resolver's back; the cached value
	// is served until it expires or is invalidated
	require.NoError(t, f.svc.ClearRoles(ctx, user.ID))

	keys, err = f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin"}, keys)
}

func TestCachedResolver_InvalidateAfterRelink(t *testing.T) {
	f := setupCachedResolver(t)
	ctx := context.Background()

	admin := f.mustCreateRole(t, "Admin", "sys:admin")
	editor := f.mustCreateRole(t, "Editor", "sys:editor")
	user, err := f.svc.CreateUser(ctx, CreateUserRequest{
		LoginName: "alice",
		Password:  "secret123",
		RoleIDs:   []uuid.UUID{admin.ID},
	})
	require.NoError(t, err)

	keys, err := f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin"}, keys)

	label, err := f.resolver.ResolveRoleGroupLabel(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", label)

	require.NoError(t, f.resolver.ReplaceRoles(ctx, user.ID, []uuid.UUID{editor.ID}))

	keys, err = f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:editor"}, keys)

	label, err = f.resolver.ResolveRoleGroupLabel(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editor", label)
}

func TestCachedResolver_RelinkFromCSVInvalidates(t *testing.T) {
	f := setupCachedResolver(t)
	ctx := context.Background()

	admin := f.mustCreateRole(t, "Admin", "sys:admin")
	editor := f.mustCreateRole(t, "Editor", "sys:editor")
	user, err := f.svc.CreateUser(ctx, CreateUserRequest{
		LoginName: "alice",
		Password:  "secret123",
		RoleIDs:   []uuid.UUID{admin.ID},
	})
	require.NoError(t, err)

	keys, err := f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin"}, keys)

	require.NoError(t, f.resolver.RelinkRolesFromCSV(ctx, user.ID, editor.ID.String()))

	keys, err = f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:editor"}, keys)
}

func TestCachedResolver_ClearRolesInvalidates(t *testing.T) {
	f := setupCachedResolver(t)
	ctx := context.Background()

	admin := f.mustCreateRole(t, "Admin", "sys:admin")
	user, err := f.svc.CreateUser(ctx, CreateUserRequest{
		LoginName: "alice",
		Password:  "secret123",
		RoleIDs:   []uuid.UUID{admin.ID},
	})
	require.NoError(t, err)

	perms, err := f.resolver.ResolvePermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)

	keys, err := f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin"}, keys)

	require.NoError(t, f.resolver.ClearRoles(ctx, user.ID))

	keys, err = f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCachedResolver_CorruptEntryFallsThrough(t *testing.T) {
	f := setupCachedResolver(t)
	ctx := context.Background()

	admin := f.mustCreateRole(t, "Admin", "sys:admin")
	user, err := f.svc.CreateUser(ctx, CreateUserRequest{
		LoginName: "alice",
		Password:  "secret123",
		RoleIDs:   []uuid.UUID{admin.ID},
	})
	require.NoError(t, err)

	key := fmt.Sprintf(cacheKeyRoleKeys, user.ID)
	require.NoError(t, f.cache.Set(ctx, key, []byte("{not json"), 0))

	keys, err := f.resolver.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin"}, keys)
}

var _ role.Lookup = (*role.RoleService)(nil)
