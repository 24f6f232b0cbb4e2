package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a store customer
type Customer struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName       string         `gorm:"type:varchar(255);not null" json:"full_name"`
	DocumentNumber string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"document_number"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone"`
	Address        string         `gorm:"type:text" json:"address"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
