package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity log action constants
const (
	ActionCreateProduct       = "CREATE_PRODUCT"
	ActionUpdateProduct       = "UPDATE_PRODUCT"
	ActionDeleteProduct       = "DELETE_PRODUCT"
	ActionCreatePurchaseOrder = "CREATE_PURCHASE_ORDER"
	ActionTransitionOrder     = "TRANSITION_PURCHASE_ORDER"
	ActionCreateSale          = "CREATE_SALE"
)

// ActivityLog tracks who did what and when for critical system changes
type ActivityLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
