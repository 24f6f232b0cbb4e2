package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"
	ws "sigrap/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id"`
	EmployeeID string            `json:"employee_id"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1"`
}

type SaleItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	SaleNumber   string             `json:"sale_number"`
	CustomerID   string             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	TotalAmount  string             `json:"total_amount"`
	Items        []SaleItemResponse `json:"items"`
	CreatedAt    string             `json:"created_at"`
}

// SaleService records customer sales. A sale decrements stock for every line
// atomically; any line with insufficient stock rejects the whole sale.
type SaleService interface {
	CreateSale(ctx context.Context, userID string, req CreateSaleRequest) (*SaleResponse, error)
	GetSale(ctx context.Context, id string) (*SaleResponse, error)
	ListSales(ctx context.Context, page, limit int) ([]SaleResponse, int64, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	activityRepo repository.ActivityRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	logger       *zap.Logger
}

// NewSaleService returns a new instance of SaleService
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		hub:          hub,
		logger:       logger,
	}
}

func mapToSaleResponse(sale *model.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:          sale.ID.String(),
		SaleNumber:  sale.SaleNumber,
		TotalAmount: sale.TotalAmount.StringFixed(4),
		CreatedAt:   sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		resp.CustomerID = sale.CustomerID.String()
	}
	if sale.Customer != nil {
		resp.CustomerName = sale.Customer.FullName
	}
	for _, item := range sale.Items {
		line := SaleItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(4),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}

func (s *saleService) CreateSale(ctx context.Context, userID string, req CreateSaleRequest) (*SaleResponse, error) {
	sale := &model.Sale{TotalAmount: decimal.Zero}

	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, apperr.Validation("invalid customer_id")
		}
		if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("customer not found")
			}
			return nil, err
		}
		sale.CustomerID = &customerID
	}
	if req.EmployeeID != "" {
		employeeID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, apperr.Validation("invalid employee_id")
		}
		sale.EmployeeID = &employeeID
	}

	var stockUpdates []*model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		total := decimal.Zero
		for _, line := range req.Items {
			productID, parseErr := uuid.Parse(line.ProductID)
			if parseErr != nil {
				return apperr.Validation("invalid product_id")
			}

			// Lock the row so concurrent sales serialize on stock
			product, findErr := s.productRepo.FindByIDForUpdate(txCtx, productID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("product %s not found", line.ProductID)
				}
				return findErr
			}

			if product.StockQuantity < line.Quantity {
				return apperr.Validationf("insufficient stock for %s (have %d, need %d)",
					product.SKU, product.StockQuantity, line.Quantity)
			}

			product.StockQuantity -= line.Quantity
			if updErr := s.productRepo.UpdateStock(txCtx, product.ID, product.StockQuantity); updErr != nil {
				return updErr
			}
			stockUpdates = append(stockUpdates, product)

			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.SalePrice,
			})
			total = total.Add(product.SalePrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		sale.TotalAmount = total

		seq, seqErr := s.saleRepo.NextSaleSequence(txCtx, "SAL-")
		if seqErr != nil {
			return fmt.Errorf("failed to generate sale number: %w", seqErr)
		}
		sale.SaleNumber = fmt.Sprintf("SAL-%s-%04d", time.Now().UTC().Format("200601"), seq)

		if createErr := s.saleRepo.Create(txCtx, sale); createErr != nil {
			return fmt.Errorf("failed to create sale: %w", createErr)
		}

		entry := &model.ActivityLog{
			Action:     model.ActionCreateSale,
			EntityID:   sale.ID.String(),
			EntityName: sale.SaleNumber,
		}
		if uid, parseErr := uuid.Parse(userID); parseErr == nil {
			entry.UserID = &uid
		}
		return s.activityRepo.Log(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_number", sale.SaleNumber),
		zap.String("total", sale.TotalAmount.StringFixed(4)),
		zap.Int("items", len(sale.Items)))

	for _, product := range stockUpdates {
		s.hub.BroadcastEvent(ws.Event{
			Event: ws.EventStockChanged,
			Data: map[string]interface{}{
				"product_id": product.ID.String(),
				"sku":        product.SKU,
				"stock":      product.StockQuantity,
				"low_stock":  product.StockQuantity <= product.MinimumStock,
			},
		})
	}

	return s.GetSale(ctx, sale.ID.String())
}

func (s *saleService) GetSale(ctx context.Context, id string) (*SaleResponse, error) {
	saleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid sale id")
	}
	sale, err := s.saleRepo.FindByIDWithItems(ctx, saleID)
	if err != nil {
		return nil, apperr.NotFound("sale not found")
	}
	return mapToSaleResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, page, limit int) ([]SaleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sales, total, err := s.saleRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, *mapToSaleResponse(&sales[i]))
	}
	return responses, total, nil
}
