package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity labels the device-reported motion state of a telemetry sample.
type Activity string

const (
	ActivityStill   Activity = "still"
	ActivityWalking Activity = "walking"
	ActivityRunning Activity = "running"
	ActivityCycling Activity = "cycling"
	ActivityDriving Activity = "driving"
	ActivityUnknown Activity = "unknown"
)

// Valid reports whether a is a known activity label.
func (a Activity) Valid() bool {
	switch a {
	case ActivityStill, ActivityWalking, ActivityRunning, ActivityCycling, ActivityDriving, ActivityUnknown:
		return true
	}
	return false
}

// Location is one device telemetry sample. Append-only: never mutated after
// insert, deleted only by user cascade or the retention sweeper.
type Location struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_locations_user_ts" json:"user_id"`
	Latitude        float64   `gorm:"not null" json:"latitude"`
	Longitude       float64   `gorm:"not null" json:"longitude"`
	Accuracy        *float64  `json:"accuracy"`
	Altitude        *float64  `json:"altitude"`
	Speed           *float64  `json:"speed"`
	Heading         *float64  `json:"heading"`
	BatteryLevel    *int      `json:"battery_level"`
	BatteryCharging *bool     `json:"battery_charging"`
	Timestamp       time.Time `gorm:"index:idx_locations_user_ts" json:"timestamp"`
	Activity        Activity  `gorm:"type:varchar(20);default:'unknown'" json:"activity"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	if l.Activity == "" {
		l.Activity = ActivityUnknown
	}
	return nil
}
