package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MissingLoadingPointEntry is an immutable anomaly record written when an
// unloading event arrives for a vehicle with no loading-stage record.
type MissingLoadingPointEntry struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_mlp_user_created" json:"user_id"`
	User               *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	VehicleNumber      string     `gorm:"type:varchar(30);not null;index:idx_mlp_vehicle_created" json:"vehicle_number"`
	QRCode             string     `gorm:"type:varchar(100)" json:"qr_code"`
	UnloadingPointID   *uuid.UUID `gorm:"type:uuid" json:"unloading_point_id"`
	UnloadingPointName string     `gorm:"type:varchar(255)" json:"unloading_point_name"`
	ProjectID          *uuid.UUID `gorm:"type:uuid" json:"project_id"`
	ProjectName        string     `gorm:"type:varchar(255)" json:"project_name"`
	Reason             string     `gorm:"type:text;default:'Loading point entry missing'" json:"reason"`
	Timestamp          time.Time  `json:"timestamp"`
	CreatedAt          time.Time  `gorm:"index:idx_mlp_user_created;index:idx_mlp_vehicle_created" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (m *MissingLoadingPointEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if m.Reason == "" {
		m.Reason = "Loading point entry missing"
	}
	return nil
}

// MissingUnloadingPointEntry is an immutable anomaly record written when a
// new stage start implicitly supersedes a vehicle's still-active trip. It
// snapshots the superseded trip plus the caller-supplied reason.
type MissingUnloadingPointEntry struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID     `gorm:"type:uuid;not null;index:idx_mup_user_created" json:"user_id"`
	User                  *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TripID                uuid.UUID     `gorm:"type:uuid;not null;index" json:"trip_id"`
	VehicleNumber         string        `gorm:"type:varchar(30);not null;index:idx_mup_vehicle_created" json:"vehicle_number"`
	QRCode                string        `gorm:"type:varchar(100)" json:"qr_code"`
	PreviousProjectID     *uuid.UUID    `gorm:"type:uuid" json:"previous_project_id"`
	PreviousProjectName   string        `gorm:"type:varchar(255)" json:"previous_project_name"`
	PreviousSelectionType SelectionType `gorm:"type:varchar(30)" json:"previous_selection_type"`
	PreviousSelectionName string        `gorm:"type:varchar(255)" json:"previous_selection_name"`
	TripStartTime         *time.Time    `json:"trip_start_time"`
	TripEndTime           *time.Time    `json:"trip_end_time"`
	Reason                string        `gorm:"type:text;not null" json:"reason"`
	Timestamp             time.Time     `json:"timestamp"`
	CreatedAt             time.Time     `gorm:"index:idx_mup_user_created;index:idx_mup_vehicle_created" json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

func (m *MissingUnloadingPointEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}
