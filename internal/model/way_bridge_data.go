package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WayBridgeData captures a weighbridge reading for a trip. Net weight is
// derived on write; grossWeight - tareWeight must equal netWeight for every
// stored row.
type WayBridgeData struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TripID            uuid.UUID       `gorm:"type:uuid;index" json:"trip_id"`
	QRCode            string          `gorm:"type:varchar(100)" json:"qr_code"`
	VehicleNumber     string          `gorm:"type:varchar(30);not null;index" json:"vehicle_number"`
	WayBridgeID       uuid.UUID       `gorm:"type:uuid;not null" json:"way_bridge_id"`
	WayBridgeName     string          `gorm:"type:varchar(255);not null" json:"way_bridge_name"`
	ProjectID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	ProjectName       string          `gorm:"type:varchar(255);not null" json:"project_name"`
	TransporterID     uuid.UUID       `gorm:"type:uuid;not null" json:"transporter_id"`
	TransporterName   string          `gorm:"type:varchar(255);not null" json:"transporter_name"`
	LoadingPointID    uuid.UUID       `gorm:"type:uuid;not null" json:"loading_point_id"`
	LoadingPointName  string          `gorm:"type:varchar(255);not null" json:"loading_point_name"`
	WeighBridgeSlipNo string          `gorm:"type:varchar(100)" json:"weigh_bridge_slip_no"`
	LoadingPointSlipNo string         `gorm:"type:varchar(100)" json:"loading_point_slip_no"`
	GrossWeight       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"gross_weight"`
	TareWeight        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"tare_weight"`
	NetWeight         decimal.Decimal `gorm:"type:decimal(12,3)" json:"net_weight"`
	Timestamp         time.Time       `gorm:"index" json:"timestamp"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (w *WayBridgeData) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Timestamp.IsZero() {
		w.Timestamp = time.Now().UTC()
	}
	return nil
}

// BeforeSave derives the net weight so the invariant holds on every write
// path, not just the initial create.
func (w *WayBridgeData) BeforeSave(tx *gorm.DB) error {
	w.NetWeight = w.GrossWeight.Sub(w.TareWeight)
	return nil
}
