package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionType is the closed set of dropdown taxonomy categories.
type OptionType string

const (
	OptionProject        OptionType = "project"
	OptionWayBridge      OptionType = "way_bridge"
	OptionLoadingPoint   OptionType = "loading_point"
	OptionUnloadingPoint OptionType = "unloading_point"
	OptionTransporter    OptionType = "transporter"
	OptionWBLoadingPoint OptionType = "wb_loading_point"
)

var optionTypes = []OptionType{
	OptionProject, OptionWayBridge, OptionLoadingPoint,
	OptionUnloadingPoint, OptionTransporter, OptionWBLoadingPoint,
}

// Valid reports whether t is a known taxonomy category.
func (t OptionType) Valid() bool {
	for _, known := range optionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Display returns a human readable form, e.g. "way bridge".
func (t OptionType) Display() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// DropdownOption is a validated foreign-key target for trips and stage data.
// Workflow logic never mutates options; deactivation hides an option from
// category listings without breaking historical references.
type DropdownOption struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Type      OptionType `gorm:"type:varchar(30);not null;index:idx_options_type_active" json:"type"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Code      string     `gorm:"type:varchar(50)" json:"code"`
	IsActive  bool       `gorm:"default:true;index:idx_options_type_active" json:"is_active"`
	SortOrder int        `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (o *DropdownOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
