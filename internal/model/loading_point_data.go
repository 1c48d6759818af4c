package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoadingStatus tracks progress of a loading stage record.
type LoadingStatus string

const (
	LoadingStarted    LoadingStatus = "started"
	LoadingInProgress LoadingStatus = "in_progress"
	LoadingCompleted  LoadingStatus = "completed"
)

// LoadingPointData captures the loading stage of a trip.
type LoadingPointData struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	TripID           uuid.UUID     `gorm:"type:uuid;index" json:"trip_id"`
	QRCode           string        `gorm:"type:varchar(100)" json:"qr_code"`
	VehicleNumber    string        `gorm:"type:varchar(30);not null;index" json:"vehicle_number"`
	LoadingPointID   uuid.UUID     `gorm:"type:uuid;not null" json:"loading_point_id"`
	LoadingPointName string        `gorm:"type:varchar(255);not null" json:"loading_point_name"`
	ProjectID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"project_id"`
	ProjectName      string        `gorm:"type:varchar(255);not null" json:"project_name"`
	TransporterID    uuid.UUID     `gorm:"type:uuid;not null" json:"transporter_id"`
	TransporterName  string        `gorm:"type:varchar(255);not null" json:"transporter_name"`
	Notes            string        `gorm:"type:text" json:"notes"`
	Status           LoadingStatus `gorm:"type:varchar(20);default:'started';index" json:"status"`
	Timestamp        time.Time     `gorm:"index" json:"timestamp"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (l *LoadingPointData) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}
