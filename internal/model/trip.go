package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripStatus is the trip state machine: active -> completed | cancelled.
// Both terminal states are immutable.
type TripStatus string

const (
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// SelectionType identifies which kind of point a trip was started against.
type SelectionType string

const (
	SelectionWayBridge      SelectionType = "way_bridge"
	SelectionLoadingPoint   SelectionType = "loading_point"
	SelectionUnloadingPoint SelectionType = "unloading_point"
)

// Valid reports whether s is a known selection type.
func (s SelectionType) Valid() bool {
	return s == SelectionWayBridge || s == SelectionLoadingPoint || s == SelectionUnloadingPoint
}

// Trip is one vehicle movement. Project and selection names are point-in-time
// snapshots taken from the resolved dropdown options at creation: later
// renames of the option must not rewrite trip history.
type Trip struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index:idx_trips_user_status" json:"user_id"`
	QRCode         string        `gorm:"type:varchar(100);index" json:"qr_code"`
	VehicleNumber  string        `gorm:"type:varchar(30);not null;index:idx_trips_vehicle_status" json:"vehicle_number"`
	ProjectID      uuid.UUID     `gorm:"type:uuid;not null" json:"project_id"`
	ProjectName    string        `gorm:"type:varchar(255);not null" json:"project_name"`
	SelectionType  SelectionType `gorm:"type:varchar(30);not null" json:"selection_type"`
	SelectionID    uuid.UUID     `gorm:"type:uuid;not null" json:"selection_id"`
	SelectionName  string        `gorm:"type:varchar(255);not null" json:"selection_name"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        *time.Time    `json:"end_time"`
	Status         TripStatus    `gorm:"type:varchar(20);default:'active';index:idx_trips_user_status;index:idx_trips_vehicle_status" json:"status"`
	StartLatitude  *float64      `json:"start_latitude"`
	StartLongitude *float64      `json:"start_longitude"`
	EndLatitude    *float64      `json:"end_latitude"`
	EndLongitude   *float64      `json:"end_longitude"`
	Notes          string        `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.StartTime.IsZero() {
		t.StartTime = time.Now().UTC()
	}
	return nil
}
