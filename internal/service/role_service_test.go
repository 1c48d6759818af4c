package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

func newRoleService(db *gorm.DB) RoleService {
	return NewRoleService(db, repository.NewUserRepository(db), repository.NewTransactionManager(db))
}

func TestCreateRole(t *testing.T) {
	db := newTestDB(t)
	svc := newRoleService(db)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleRequest{
		Name:        "Supervisor",
		Description: "Site supervisors",
		Permissions: []string{"users:read", "locations:read", "reports:read"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Supervisor", role.Name)
	assert.Len(t, role.Permissions, 3)
	assert.Contains(t, role.Permissions, model.PermUsersRead)

	t.Run("unknown permission code is rejected", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, CreateRoleRequest{
			Name:        "Broken",
			Permissions: []string{"users:fly"},
		})
		assert.ErrorIs(t, err, ErrInvalidPermission)
	})

	t.Run("name uniqueness is case-insensitive", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "SUPERVISOR"})
		assert.ErrorIs(t, err, ErrRoleNameTaken)
	})

	t.Run("duplicate codes are collapsed", func(t *testing.T) {
		role, err := svc.CreateRole(ctx, CreateRoleRequest{
			Name:        "Reader",
			Permissions: []string{"users:read", "users:read"},
		})
		require.NoError(t, err)
		assert.Len(t, role.Permissions, 1)
	})
}

func TestDefaultRoleIsExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := newRoleService(db)
	ctx := context.Background()

	first, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Driver", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Operator", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	// Flipping the default on one role clears it on the other.
	var defaults int64
	require.NoError(t, db.Model(&model.Role{}).Where("is_default = ?", true).Count(&defaults).Error)
	assert.EqualValues(t, 1, defaults)

	current, err := svc.GetDefaultRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Operator", current.Name)
}

func TestSystemRolesAreImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := newRoleService(db)
	ctx := context.Background()

	system := &model.Role{Name: "Root", IsSystem: true}
	require.NoError(t, db.Create(system).Error)

	name := "Renamed"
	_, err := svc.UpdateRole(ctx, system.ID, UpdateRoleRequest{Name: &name})
	assert.ErrorIs(t, err, ErrRoleImmutable)

	err = svc.DeleteRole(ctx, system.ID)
	assert.ErrorIs(t, err, ErrRoleImmutable)
}

func TestDeleteRoleBlockedWhileAssigned(t *testing.T) {
	db := newTestDB(t)
	svc := newRoleService(db)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Driver"})
	require.NoError(t, err)

	user := seedUser(t, db, "driver@example.com")
	_, err = svc.AssignRole(ctx, user.ID, &role.ID)
	require.NoError(t, err)

	err = svc.DeleteRole(ctx, role.ID)
	assert.ErrorIs(t, err, ErrRoleInUse)

	// Unassign, then deletion goes through.
	_, err = svc.AssignRole(ctx, user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRole(ctx, role.ID))

	_, err = svc.GetRole(ctx, role.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestListUsersByRole(t *testing.T) {
	db := newTestDB(t)
	svc := newRoleService(db)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Driver"})
	require.NoError(t, err)

	a := seedUser(t, db, "a@example.com")
	seedUser(t, db, "b@example.com")
	_, err = svc.AssignRole(ctx, a.ID, &role.ID)
	require.NoError(t, err)

	users, err := svc.ListUsersByRole(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)
	require.NotNil(t, users[0].Role)
	assert.Equal(t, "Driver", *users[0].Role)
}

func TestListPermissionsCoversVocabulary(t *testing.T) {
	db := newTestDB(t)
	svc := newRoleService(db)

	perms := svc.ListPermissions(context.Background())
	assert.Len(t, perms, len(model.AllPermissions))
	for _, p := range perms {
		assert.True(t, p.Code.Valid())
		assert.NotEmpty(t, p.Resource)
	}
}
