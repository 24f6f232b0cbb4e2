package database

import (
	"log"

	"sigrap/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Role{},
		&model.Permission{},
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.Customer{},
		&model.Supplier{},
		&model.Employee{},
		&model.Schedule{},
		&model.Attendance{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.TrackingEvent{},
		&model.Payment{},
		&model.Sale{},
		&model.SaleItem{},
		&model.ActivityLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
