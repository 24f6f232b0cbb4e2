package model

import (
	"time"

	"github.com/google/uuid"
)

// Built-in role names. ADMINISTRATOR and EMPLOYEE are seeded at startup and
// flagged as system roles so they cannot be deleted while users reference them.
const (
	RoleAdministrator = "ADMINISTRATOR"
	RoleEmployee      = "EMPLOYEE"
)

// Role groups a named set of permissions
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission grants exactly one (resource, action) pair
type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"` // e.g. "PRODUCT.CREATE"
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Resource string    `gorm:"type:varchar(50);not null;index" json:"resource"`
	Action   string    `gorm:"type:varchar(50);not null" json:"action"`
}
