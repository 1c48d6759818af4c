package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

func newAdminService(db *gorm.DB) AdminService {
	return NewAdminService(
		db,
		repository.NewUserRepository(db),
		repository.NewLocationRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestAdminUserLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Email:    "Operator@Example.com",
		Password: "secret123",
		Name:     "Operator",
	})
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", created.Email)
	assert.False(t, created.IsAdmin)

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserRequest{
			Email:    "operator@example.com",
			Password: "secret123",
			Name:     "Copy",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("update changes password hash", func(t *testing.T) {
		newPass := "changed456"
		_, err := svc.UpdateUser(ctx, created.ID, UpdateUserRequest{Password: &newPass})
		require.NoError(t, err)

		var user model.User
		require.NoError(t, db.First(&user, "id = ?", created.ID).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(newPass)))
	})

	t.Run("email change to a taken address rejected", func(t *testing.T) {
		other, err := svc.CreateUser(ctx, CreateUserRequest{
			Email:    "other@example.com",
			Password: "secret123",
			Name:     "Other",
		})
		require.NoError(t, err)

		taken := "operator@example.com"
		_, err = svc.UpdateUser(ctx, other.ID, UpdateUserRequest{Email: &taken})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("delete cascades telemetry", func(t *testing.T) {
		telemetry := newTelemetryService(db)
		_, err := telemetry.IngestBatch(ctx, created.ID, IngestBatchRequest{
			Points: []LocationPoint{{Latitude: 1, Longitude: 1}},
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteUser(ctx, created.ID))

		_, err = svc.GetUser(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		var points int64
		require.NoError(t, db.Model(&model.Location{}).
			Where("user_id = ?", created.ID).Count(&points).Error)
		assert.Zero(t, points)
	})
}

func TestSuperAdminIsProtected(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	root := &model.User{
		Email:        "root@example.com",
		Password:     "hash",
		Name:         "Root",
		IsAdmin:      true,
		IsSuperAdmin: true,
		IsActive:     true,
	}
	require.NoError(t, db.Create(root).Error)

	demote := false
	_, err := svc.UpdateUser(ctx, root.ID, UpdateUserRequest{IsAdmin: &demote})
	assert.ErrorIs(t, err, ErrRoleImmutable)

	assert.ErrorIs(t, svc.DeleteUser(ctx, root.ID), ErrRoleImmutable)
}

func TestListUsersSearch(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	for _, u := range []struct{ email, name string }{
		{"anna@example.com", "Anna Driver"},
		{"bob@example.com", "Bob Loader"},
		{"carol@example.com", "Carol Driver"},
	} {
		_, err := svc.CreateUser(ctx, CreateUserRequest{Email: u.email, Password: "secret123", Name: u.name})
		require.NoError(t, err)
	}

	users, total, err := svc.ListUsers(ctx, UserListRequest{Search: "driver", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = svc.ListUsers(ctx, UserListRequest{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	fx := newTripFixture(t)
	svc := newAdminService(fx.db)

	trip := fx.startTrip(t, "ka01ab1234")
	_, err := fx.svc.EndTrip(ctx, fx.user.ID, trip.ID, EndTripRequest{})
	require.NoError(t, err)
	fx.startTrip(t, "ka02cd5678")

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dash.Stats.TotalUsers)
	assert.EqualValues(t, 1, dash.Stats.ActiveTrips)
	assert.EqualValues(t, 1, dash.Stats.CompletedTripsToday)
	assert.EqualValues(t, 2, dash.Stats.TotalVehicles, "each scanned code is on file")
	assert.Zero(t, dash.Stats.CancelledTripsToday)
	assert.Zero(t, dash.Stats.InactiveUsers)
	require.Len(t, dash.RecentUsers, 1)
	assert.Equal(t, fx.user.ID, dash.RecentUsers[0].ID)
}
