package repository

import (
	"context"
	"time"

	"sigrap/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusCount is an aggregate row of entities grouped by status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DailySalesRow aggregates sales revenue for one calendar day
type DailySalesRow struct {
	Day    time.Time       `json:"day"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// TopProductRow is one entry of the best-seller ranking
type TopProductRow struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SupplierPurchasesRow aggregates purchase order spend for one supplier
type SupplierPurchasesRow struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Orders       int64           `json:"orders"`
	Amount       decimal.Decimal `json:"amount"`
}

type ReportRepository interface {
	CountOrdersByStatus(ctx context.Context) ([]StatusCount, error)
	CountPaymentsByStatus(ctx context.Context) ([]StatusCount, error)
	SalesByDay(ctx context.Context, from, to time.Time) ([]DailySalesRow, error)
	PurchasesBySupplier(ctx context.Context, from, to time.Time) ([]SupplierPurchasesRow, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error)
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	CountLowStock(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountOrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) CountPaymentsByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySalesRow, error) {
	var rows []DailySalesRow
	err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Select("date_trunc('day', created_at) as day, count(*) as count, coalesce(sum(total_amount), 0) as amount").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("day").
		Order("day asc").
		Scan(&rows).Error
	return rows, err
}

// PurchasesBySupplier excludes cancelled orders; the range filters on order_date
func (r *reportRepository) PurchasesBySupplier(ctx context.Context, from, to time.Time) ([]SupplierPurchasesRow, error) {
	var rows []SupplierPurchasesRow
	err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Select(`purchase_orders.supplier_id,
			suppliers.name as supplier_name,
			count(*) as orders,
			coalesce(sum(purchase_orders.total_amount), 0) as amount`).
		Joins("JOIN suppliers ON suppliers.id = purchase_orders.supplier_id").
		Where("purchase_orders.order_date >= ? AND purchase_orders.order_date < ?", from, to).
		Where("purchase_orders.status <> ?", model.OrderStatusCancelled).
		Group("purchase_orders.supplier_id, suppliers.name").
		Order("amount desc").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := GetDB(ctx, r.db).Model(&model.SaleItem{}).
		Select(`sale_items.product_id,
			products.name as product_name,
			products.sku,
			sum(sale_items.quantity) as quantity,
			coalesce(sum(sale_items.quantity * sale_items.unit_price), 0) as revenue`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", from, to).
		Group("sale_items.product_id, products.name, products.sku").
		Order("quantity desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// InventoryValue sums purchase price times stock over all products
func (r *reportRepository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := GetDB(ctx, r.db).Model(&model.Product{}).
		Select("coalesce(sum(purchase_price * stock_quantity), 0)").
		Scan(&value).Error
	return value, err
}

func (r *reportRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("stock_quantity <= minimum_stock").
		Count(&count).Error
	return count, err
}
