package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSelection is a lightweight record of a driver's current project/point
// choice, independent of any trip. At most one is treated as active per user
// by the service layer.
type UserSelection struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_selections_user_active" json:"user_id"`
	ProjectID     uuid.UUID     `gorm:"type:uuid;not null" json:"project_id"`
	ProjectName   string        `gorm:"type:varchar(255)" json:"project_name"`
	SelectionType SelectionType `gorm:"type:varchar(30);not null" json:"selection_type"`
	SelectionID   uuid.UUID     `gorm:"type:uuid;not null" json:"selection_id"`
	SelectionName string        `gorm:"type:varchar(255)" json:"selection_name"`
	IsActive      bool          `gorm:"default:true;index:idx_selections_user_active" json:"is_active"`
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (s *UserSelection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
