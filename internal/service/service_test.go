package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleettrack/internal/database"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		Password: "x",
		Name:     "Test User",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedOption(t *testing.T, db *gorm.DB, optType model.OptionType, name string) *model.DropdownOption {
	t.Helper()
	option := &model.DropdownOption{
		Type:     optType,
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(option).Error)
	return option
}

// nopEvents satisfies the event sink interfaces without a running hub.
type nopEvents struct{}

func (nopEvents) TripStarted(*model.Trip) {}
func (nopEvents) TripClosed(*model.Trip) {}
func (nopEvents) LocationUpdated(uuid.UUID, *model.Location) {}

func newTripService(db *gorm.DB) TripService {
	return NewTripService(
		repository.NewTripRepository(db),
		repository.NewStageDataRepository(db),
		repository.NewMissingEntryRepository(db),
		repository.NewOptionRepository(db),
		repository.NewQRVehicleRepository(db),
		repository.NewTransactionManager(db),
		nopEvents{},
	)
}
