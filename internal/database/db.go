package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleettrack/internal/model"
)

// NewConnection initializes a GORM connection pool and migrates the schema.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate auto-migrates every entity collection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.DropdownOption{},
		&model.QRVehicle{},
		&model.Trip{},
		&model.WayBridgeData{},
		&model.LoadingPointData{},
		&model.UnloadingPointData{},
		&model.MissingLoadingPointEntry{},
		&model.MissingUnloadingPointEntry{},
		&model.Location{},
		&model.UserSelection{},
	)
}
