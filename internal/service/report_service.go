package service

import (
	"context"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/repository"
)

type DashboardResponse struct {
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	PaymentsByStatus map[string]int64 `json:"payments_by_status"`
	InventoryValue   string           `json:"inventory_value"`
	LowStockProducts int64            `json:"low_stock_products"`
}

type DailySalesResponse struct {
	Day    string `json:"day"`
	Count  int64  `json:"count"`
	Amount string `json:"amount"`
}

type TopProductResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Revenue     string `json:"revenue"`
}

type SupplierPurchasesResponse struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Orders       int64  `json:"orders"`
	Amount       string `json:"amount"`
}

// ReportService produces management aggregates over sales, orders and stock
type ReportService interface {
	Dashboard(ctx context.Context) (*DashboardResponse, error)
	SalesReport(ctx context.Context, from, to string) ([]DailySalesResponse, error)
	PurchasesReport(ctx context.Context, from, to string) ([]SupplierPurchasesResponse, error)
	TopProducts(ctx context.Context, from, to string, limit int) ([]TopProductResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
}

// NewReportService returns a new instance of ReportService
func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	orders, err := s.repo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.CountPaymentsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.repo.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		OrdersByStatus:   make(map[string]int64),
		PaymentsByStatus: make(map[string]int64),
		InventoryValue:   value.StringFixed(4),
		LowStockProducts: lowStock,
	}
	for _, row := range orders {
		resp.OrdersByStatus[row.Status] = row.Count
	}
	for _, row := range payments {
		resp.PaymentsByStatus[row.Status] = row.Count
	}
	return resp, nil
}

func (s *reportService) SalesReport(ctx context.Context, from, to string) ([]DailySalesResponse, error) {
	fromDate, toDate, err := parseReportRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.SalesByDay(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	responses := make([]DailySalesResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, DailySalesResponse{
			Day:    row.Day.Format("2006-01-02"),
			Count:  row.Count,
			Amount: row.Amount.StringFixed(4),
		})
	}
	return responses, nil
}

func (s *reportService) PurchasesReport(ctx context.Context, from, to string) ([]SupplierPurchasesResponse, error) {
	fromDate, toDate, err := parseReportRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.PurchasesBySupplier(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierPurchasesResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, SupplierPurchasesResponse{
			SupplierID:   row.SupplierID,
			SupplierName: row.SupplierName,
			Orders:       row.Orders,
			Amount:       row.Amount.StringFixed(4),
		})
	}
	return responses, nil
}

func (s *reportService) TopProducts(ctx context.Context, from, to string, limit int) ([]TopProductResponse, error) {
	fromDate, toDate, err := parseReportRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := s.repo.TopProducts(ctx, fromDate, toDate, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]TopProductResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, TopProductResponse{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue.StringFixed(4),
		})
	}
	return responses, nil
}

// parseReportRange defaults to the last 30 days; "to" is exclusive end-of-day
func parseReportRange(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	fromDate := now.AddDate(0, 0, -30)
	toDate := now

	var err error
	if from != "" {
		fromDate, err = time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Validation("from must be YYYY-MM-DD")
		}
	}
	if to != "" {
		toDate, err = time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Validation("to must be YYYY-MM-DD")
		}
		toDate = toDate.AddDate(0, 0, 1)
	}
	if !fromDate.Before(toDate) {
		return time.Time{}, time.Time{}, apperr.Validation("from must be before to")
	}
	return fromDate, toDate, nil
}
