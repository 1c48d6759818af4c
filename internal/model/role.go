package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a capability token of the form "<resource>:<action>". The
// vocabulary is closed: anything outside AllPermissions is rejected at the
// service boundary.
type Permission string

const (
	PermUsersRead       Permission = "users:read"
	PermUsersCreate     Permission = "users:create"
	PermUsersUpdate     Permission = "users:update"
	PermUsersDelete     Permission = "users:delete"
	PermLocationsRead   Permission = "locations:read"
	PermLocationsCreate Permission = "locations:create"
	PermLocationsUpdate Permission = "locations:update"
	PermLocationsDelete Permission = "locations:delete"
	PermReportsRead     Permission = "reports:read"
	PermReportsCreate   Permission = "reports:create"
	PermReportsExport   Permission = "reports:export"
	PermSettingsRead    Permission = "settings:read"
	PermSettingsUpdate  Permission = "settings:update"
)

// AllPermissions is the full permission vocabulary in display order.
var AllPermissions = []Permission{
	PermUsersRead, PermUsersCreate, PermUsersUpdate, PermUsersDelete,
	PermLocationsRead, PermLocationsCreate, PermLocationsUpdate, PermLocationsDelete,
	PermReportsRead, PermReportsCreate, PermReportsExport,
	PermSettingsRead, PermSettingsUpdate,
}

// Valid reports whether p belongs to the known vocabulary.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// Resource returns the "<resource>" half of the permission string.
func (p Permission) Resource() string {
	for i := 0; i < len(p); i++ {
		if p[i] == ':' {
			return string(p[:i])
		}
	}
	return string(p)
}

// Role is a named permission set assignable to users. At most one role is
// flagged as the default (attached to new registrations); system roles
// reject modification and deletion.
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:varchar(200)" json:"description"`
	Permissions []Permission `gorm:"serializer:json" json:"permissions"`
	IsDefault   bool         `gorm:"default:false;index" json:"is_default"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasPermission reports whether the role grants the given permission.
func (r *Role) HasPermission(p Permission) bool {
	for _, granted := range r.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
