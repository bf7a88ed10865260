package role

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-account/pkg/errors"
)

func setupRoleService(t *testing.T) *RoleService {
	return NewRoleService(NewInMemRoleRepository())
}

func TestRoleService_CreateRole(t *testing.T) {
	service := setupRoleService(t)
	ctx := context.Background()

	role, err := service.CreateRole(ctx, "Admin", "sys:admin")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, role.ID)
	assert.Equal(t, "Admin", role.Name)
	assert.Equal(t, "sys:admin", role.RoleKey)
	assert.True(t, role.Active())

	_, err = service.CreateRole(ctx, "", "sys:admin")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))

	_, err = service.CreateRole(ctx, "Admin", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestRoleService_QueryByIDs(t *testing.T) {
	service := setupRoleService(t)
	ctx := context.Background()

	admin, err := service.CreateRole(ctx, "Admin", "sys:admin")
	require.NoError(t, err)
	editor, err := service.CreateRole(ctx, "Editor", "sys:editor")
	require.NoError(t, err)

	roles, err := service.QueryByIDs(ctx, []uuid.UUID{admin.ID, editor.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	roles, err = service.QueryByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestRoleService_DisableEnable(t *testing.T) {
	service := setupRoleService(t)
	ctx := context.Background()

	role, err := service.CreateRole(ctx, "Auditor", "sys:audit")
	require.NoError(t, err)

	err = service.DisableRole(ctx, role.ID)
	require.NoError(t, err)

	got, err := service.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.True(t, got.Disabled)
	assert.False(t, got.Active())

	err = service.EnableRole(ctx, role.ID)
	require.NoError(t, err)

	got, err = service.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.True(t, got.Active())
}

func TestRoleService_DeleteRole(t *testing.T) {
	service := setupRoleService(t)
	ctx := context.Background()

	role, err := service.CreateRole(ctx, "Temp", "sys:temp")
	require.NoError(t, err)

	err = service.DeleteRole(ctx, role.ID)
	require.NoError(t, err)

	_, err = service.GetRole(ctx, role.ID)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRoleNotFound))

	// Deleted roles still resolve through QueryByIDs so the account core
	// can see stale links and filter them by Active()
	roles, err := service.QueryByIDs(ctx, []uuid.UUID{role.ID})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.False(t, roles[0].Active())

	// Idempotent
	err = service.DeleteRole(ctx, role.ID)
	require.NoError(t, err)
}

func TestRoleService_UpdateRole(t *testing.T) {
	service := setupRoleService(t)
	ctx := context.Background()

	role, err := service.CreateRole(ctx, "Admin", "sys:admin")
	require.NoError(t, err)

	updated, err := service.UpdateRole(ctx, role.ID, "Administrator", "sys:admin")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", updated.Name)

	_, err = service.UpdateRole(ctx, uuid.New(), "Ghost", "sys:ghost")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRoleNotFound))
}
