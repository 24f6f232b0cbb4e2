package repository

import (
	"context"
	"fmt"
	"time"

	"sigrap/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a compare-and-swap status update loses
// the race against a concurrent transition on the same order.
var ErrVersionConflict = fmt.Errorf("purchase order version conflict")

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, page, limit int, status string) ([]model.PurchaseOrder, int64, error)
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) error

	CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error
	UpdateItem(ctx context.Context, item *model.PurchaseOrderItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderItem, error)
	SetReceivedQuantities(ctx context.Context, orderID uuid.UUID) error
	UpdateTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error

	CreateTrackingEvents(ctx context.Context, events []model.TrackingEvent) error
	ListTrackingEvents(ctx context.Context, orderID uuid.UUID) ([]model.TrackingEvent, error)

	NextOrderSequence(ctx context.Context, prefix string) (int64, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *purchaseOrderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Product").
		Preload("Supplier").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, page, limit int, status string) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PurchaseOrder{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// CompareAndSwapStatus applies the given column updates only if the stored
// version still matches, bumping the version in the same statement. Zero rows
// affected means a concurrent transition won; callers map that to a conflict
// error and never auto-retry.
func (r *purchaseOrderRepository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, version int, updates map[string]interface{}) error {
	updates["version"] = version + 1
	res := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *purchaseOrderRepository) CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *purchaseOrderRepository) UpdateItem(ctx context.Context, item *model.PurchaseOrderItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *purchaseOrderRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PurchaseOrderItem{}).Error
}

func (r *purchaseOrderRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderItem, error) {
	var item model.PurchaseOrderItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SetReceivedQuantities marks every line item as fully received
func (r *purchaseOrderRepository) SetReceivedQuantities(ctx context.Context, orderID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.PurchaseOrderItem{}).
		Where("order_id = ?", orderID).
		Update("received_quantity", gorm.Expr("quantity")).Error
}

func (r *purchaseOrderRepository) UpdateTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}

func (r *purchaseOrderRepository) CreateTrackingEvents(ctx context.Context, events []model.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&events).Error
}

func (r *purchaseOrderRepository) ListTrackingEvents(ctx context.Context, orderID uuid.UUID) ([]model.TrackingEvent, error) {
	var events []model.TrackingEvent
	if err := GetDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("occurred_at asc, sequence asc").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// NextOrderSequence counts documents issued this month for number generation
func (r *purchaseOrderRepository) NextOrderSequence(ctx context.Context, prefix string) (int64, error) {
	var count int64
	monthStart := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1-time.Now().UTC().Day())
	err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("order_number LIKE ? AND created_at >= ?", prefix+"%", monthStart).
		Count(&count).Error
	return count + 1, err
}
