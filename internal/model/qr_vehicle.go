package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QRVehicle maps a physical QR code to a vehicle number and, optionally, a
// transporter. One row per code; the vehicle binding is overwritten on
// re-association, not versioned.
type QRVehicle struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QRCode          string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"qr_code"`
	VehicleNumber   string     `gorm:"type:varchar(30);index" json:"vehicle_number"` // always stored uppercase
	TransporterID   *uuid.UUID `gorm:"type:uuid" json:"transporter_id"`
	TransporterName string     `gorm:"type:varchar(255)" json:"transporter_name"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	LastUsedBy      *uuid.UUID `gorm:"type:uuid" json:"last_used_by"`
	LastUsedAt      *time.Time `json:"last_used_at"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (q *QRVehicle) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
