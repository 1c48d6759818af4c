package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a field driver or an administrative account. Admin
// capability is an explicit flag rather than a role-name comparison, and
// superadmin is a second flag gating admin-account management.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	RoleID       *uuid.UUID `gorm:"type:uuid;index" json:"role_id"`
	Role         *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsAdmin      bool       `gorm:"default:false;index" json:"is_admin"`
	IsSuperAdmin bool       `gorm:"default:false" json:"is_super_admin"`
	IsActive     bool       `gorm:"index" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PermissionCodes returns the permission set of the user's role, empty when
// no role is attached or the role has not been preloaded.
func (u *User) PermissionCodes() []Permission {
	if u.Role == nil {
		return nil
	}
	return u.Role.Permissions
}
