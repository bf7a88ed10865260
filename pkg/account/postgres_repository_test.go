package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/menu"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/role"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "account_db"
	dbUser := "account"
	dbPassword := "pwd"

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "account_db.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func testCredential(t *testing.T) password.Credential {
	cred, err := password.NewCredentialManager().CreateCredential("secret123")
	require.NoError(t, err)
	return cred
}

func TestPostgresAccountRepository(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)
	roleRepo := role.NewPostgresRoleRepository(pool)

	admin, err := roleRepo.CreateRole(ctx, role.CreateRoleParams{Name: "Admin", RoleKey: "sys:admin"})
	require.NoError(t, err)
	editor, err := roleRepo.CreateRole(ctx, role.CreateRoleParams{Name: "Editor", RoleKey: "sys:editor"})
	require.NoError(t, err)

	user, err := repo.CreateUser(ctx, CreateUserParams{
		LoginName:  "alice",
		Credential: testCredential(t),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice", user.LoginName)
	assert.Equal(t, password.CurrentPasswordVersion, user.Credential.Version)

	t.Run("DuplicateLoginName", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, CreateUserParams{
			LoginName:  "alice",
			Credential: testCredential(t),
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUserAlreadyExists))
	})

	t.Run("GetUser", func(t *testing.T) {
		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Credential.Hash, got.Credential.Hash)
		assert.Equal(t, user.Credential.Salt, got.Credential.Salt)

		_, err = repo.GetUser(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUserNotFound))
	})

	t.Run("FindUserByLoginName", func(t *testing.T) {
		got, err := repo.FindUserByLoginName(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.FindUserByLoginName(ctx, "nobody")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUserNotFound))
	})

	t.Run("ReplaceUserRoles", func(t *testing.T) {
		err := repo.ReplaceUserRoles(ctx, user.ID, []uuid.UUID{admin.ID, editor.ID})
		require.NoError(t, err)

		uwr, err := repo.GetUserWithRoles(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, uwr.Roles, 2)

		// Replace again with a single role
		err = repo.ReplaceUserRoles(ctx, user.ID, []uuid.UUID{editor.ID})
		require.NoError(t, err)

		uwr, err = repo.GetUserWithRoles(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, uwr.Roles, 1)
		assert.Equal(t, editor.ID, uwr.Roles[0].ID)

		// Duplicate ids collapse on the primary key
		err = repo.ReplaceUserRoles(ctx, user.ID, []uuid.UUID{admin.ID, admin.ID})
		require.NoError(t, err)

		uwr, err = repo.GetUserWithRoles(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, uwr.Roles, 1)
		assert.Equal(t, admin.ID, uwr.Roles[0].ID)
	})

	t.Run("UpdateUserPartial", func(t *testing.T) {
		newName := "alice2"
		updated, err := repo.UpdateUserPartial(ctx, UpdateUserParams{ID: user.ID, LoginName: &newName})
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.LoginName)

		ip := "203.0.113.7"
		updated, err = repo.UpdateUserPartial(ctx, UpdateUserParams{ID: user.ID, LoginIP: &ip})
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.LoginName)
		assert.Equal(t, "203.0.113.7", updated.LoginIP)
	})

	t.Run("UpdateCredential", func(t *testing.T) {
		fresh := testCredential(t)
		require.NoError(t, repo.UpdateCredential(ctx, user.ID, fresh))

		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, fresh.Hash, got.Credential.Hash)
		assert.Equal(t, fresh.Salt, got.Credential.Salt)

		err = repo.UpdateCredential(ctx, uuid.New(), fresh)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUserNotFound))
	})

	t.Run("RecordLogin", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.RecordLogin(ctx, user.ID, "198.51.100.4", at))

		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "198.51.100.4", got.LoginIP)
		require.NotNil(t, got.LoginAt)
		assert.WithinDuration(t, at, *got.LoginAt, time.Second)
	})

	t.Run("DeleteUser", func(t *testing.T) {
		doomed, err := repo.CreateUser(ctx, CreateUserParams{
			LoginName:  "bob",
			Credential: testCredential(t),
		})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteUser(ctx, doomed.ID))

		_, err = repo.GetUser(ctx, doomed.ID)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUserNotFound))

		// Soft delete frees the login name
		again, err := repo.CreateUser(ctx, CreateUserParams{
			LoginName:  "bob",
			Credential: testCredential(t),
		})
		require.NoError(t, err)
		assert.NotEqual(t, doomed.ID, again.ID)
	})
}

func TestAccountServiceOnPostgres(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	roleSvc := role.NewRoleService(role.NewPostgresRoleRepository(pool))
	repo := NewPostgresAccountRepository(pool)
	menus := menu.NewPostgresPermissionLookup(pool)
	svc := NewAccountService(repo, roleSvc, menus)

	admin, err := roleSvc.CreateRole(ctx, "Admin", "sys:admin")
	require.NoError(t, err)
	editor, err := roleSvc.CreateRole(ctx, "Editor", "sys:editor")
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, CreateUserRequest{
		LoginName: "alice",
		Password:  "secret123",
		RoleIDs:   []uuid.UUID{admin.ID, editor.ID},
	})
	require.NoError(t, err)

	ok, err := svc.VerifyPassword(ctx, user.ID, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := svc.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:admin", "sys:editor"}, keys)

	label, err := svc.ResolveRoleGroupLabel(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin,Editor", label)

	// Attach menus to one role and resolve their permissions
	for name, perm := range map[string]string{
		"User List": "sys:user:list",
		"User Edit": "sys:user:edit",
	} {
		var menuID uuid.UUID
		err = pool.QueryRow(ctx,
			`INSERT INTO menus (name, perms) VALUES ($1, $2) RETURNING id`,
			name, perm,
		).Scan(&menuID)
		require.NoError(t, err)
		_, err = pool.Exec(ctx,
			`INSERT INTO role_menus (role_id, menu_id) VALUES ($1, $2)`,
			admin.ID, menuID,
		)
		require.NoError(t, err)
	}

	perms, err := svc.ResolvePermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:user:edit", "sys:user:list"}, perms)

	// Disabling the role hides its menu permissions and its role key
	require.NoError(t, roleSvc.DisableRole(ctx, admin.ID))

	keys, err = svc.ResolveRoleKeys(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sys:editor"}, keys)

	perms, err = svc.ResolvePermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}
