package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnloadingPointData captures the terminal stage of a trip. Slip numbers,
// point names and weights from earlier stages are carried over as reported
// by the device so the row reads as a complete delivery record.
type UnloadingPointData struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TripID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"trip_id"`
	QRCode             string          `gorm:"type:varchar(100)" json:"qr_code"`
	VehicleNumber      string          `gorm:"type:varchar(30);not null;index" json:"vehicle_number"`
	WayBridgeSlipNo    string          `gorm:"type:varchar(100)" json:"way_bridge_slip_no"`
	LoadingPointSlipNo string          `gorm:"type:varchar(100)" json:"loading_point_slip_no"`
	LoadingPointName   string          `gorm:"type:varchar(255)" json:"loading_point_name"`
	WayBridgeName      string          `gorm:"type:varchar(255)" json:"way_bridge_name"`
	GrossWeight        decimal.Decimal `gorm:"type:decimal(12,3)" json:"gross_weight"`
	TareWeight         decimal.Decimal `gorm:"type:decimal(12,3)" json:"tare_weight"`
	NetWeight          decimal.Decimal `gorm:"type:decimal(12,3)" json:"net_weight"`
	UnloadingPointID   uuid.UUID       `gorm:"type:uuid;not null" json:"unloading_point_id"`
	UnloadingPointName string          `gorm:"type:varchar(255);not null" json:"unloading_point_name"`
	ProjectID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	ProjectName        string          `gorm:"type:varchar(255);not null" json:"project_name"`
	Notes              string          `gorm:"type:text" json:"notes"`
	ImagePath          string          `gorm:"type:varchar(255)" json:"image_path"`
	Timestamp          time.Time       `gorm:"index" json:"timestamp"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (u *UnloadingPointData) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Timestamp.IsZero() {
		u.Timestamp = time.Now().UTC()
	}
	return nil
}
