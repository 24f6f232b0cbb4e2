package service

import (
	"context"
	"encoding/json"
	"fmt"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"
	"sigrap/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	SalePrice     string `json:"sale_price" binding:"required"`
	PurchasePrice string `json:"purchase_price"`
	StockQuantity int    `json:"stock_quantity"`
	MinimumStock  int    `json:"minimum_stock"`
}

type UpdateProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	SalePrice     string `json:"sale_price"`
	PurchasePrice string `json:"purchase_price"`
	MinimumStock  *int   `json:"minimum_stock"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

type ProductResponse struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	SalePrice     string `json:"sale_price"`
	PurchasePrice string `json:"purchase_price"`
	StockQuantity int    `json:"stock_quantity"`
	MinimumStock  int    `json:"minimum_stock"`
	LowStock      bool   `json:"low_stock"`
}

// CatalogService manages categories, products and stock levels
type CatalogService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]CategoryResponse, error)

	CreateProduct(ctx context.Context, subjectID uuid.UUID, req CreateProductRequest) (*ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*ProductResponse, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error)
	ListLowStockProducts(ctx context.Context) ([]ProductResponse, error)
	UpdateProduct(ctx context.Context, subjectID uuid.UUID, id string, req UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, subjectID uuid.UUID, id string) error
	AdjustStock(ctx context.Context, subjectID uuid.UUID, id string, req AdjustStockRequest) (*ProductResponse, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	activityRepo repository.ActivityRepository
	txManager    repository.TransactionManager
	hub          *websocket.Hub
	logger       *zap.Logger
}

// NewCatalogService returns a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		hub:          hub,
		logger:       logger,
	}
}

func mapToCategoryResponse(category *model.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
	}
}

func mapToProductResponse(product *model.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:            product.ID.String(),
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		SalePrice:     product.SalePrice.StringFixed(4),
		PurchasePrice: product.PurchasePrice.StringFixed(4),
		StockQuantity: product.StockQuantity,
		MinimumStock:  product.MinimumStock,
		LowStock:      product.StockQuantity <= product.MinimumStock,
	}
	if product.CategoryID != nil {
		resp.CategoryID = product.CategoryID.String()
	}
	if product.Category != nil {
		resp.CategoryName = product.Category.Name
	}
	return resp
}

func (s *catalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if _, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperr.Validation("category name already exists")
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return mapToCategoryResponse(category), nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid category id")
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}

	if req.Name != "" && req.Name != category.Name {
		if _, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil {
			return nil, apperr.Validation("category name already exists")
		}
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return mapToCategoryResponse(category), nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid category id")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return apperr.NotFound("category not found")
	}

	count, err := s.categoryRepo.CountProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("category still has products")
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *mapToCategoryResponse(&categories[i]))
	}
	return responses, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, subjectID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.productRepo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, apperr.Validation("sku already exists")
	}

	salePrice, err := parsePrice(req.SalePrice, "sale_price")
	if err != nil {
		return nil, err
	}
	purchasePrice := decimal.Zero
	if req.PurchasePrice != "" {
		purchasePrice, err = parsePrice(req.PurchasePrice, "purchase_price")
		if err != nil {
			return nil, err
		}
	}
	if req.StockQuantity < 0 || req.MinimumStock < 0 {
		return nil, apperr.Validation("stock quantities must not be negative")
	}

	product := &model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		SalePrice:     salePrice,
		PurchasePrice: purchasePrice,
		StockQuantity: req.StockQuantity,
		MinimumStock:  req.MinimumStock,
	}

	if req.CategoryID != "" {
		categoryID, parseErr := uuid.Parse(req.CategoryID)
		if parseErr != nil {
			return nil, apperr.Validation("invalid category_id")
		}
		category, catErr := s.categoryRepo.FindByID(ctx, categoryID)
		if catErr != nil {
			return nil, apperr.NotFound("category not found")
		}
		product.CategoryID = &category.ID
		product.Category = category
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return err
		}
		return s.logActivity(txCtx, subjectID, model.ActionCreateProduct, product.ID.String(), product.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	return mapToProductResponse(product), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid product id")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}
	return mapToProductResponse(product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	products, total, err := s.productRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *mapToProductResponse(&products[i]))
	}
	return responses, total, nil
}

func (s *catalogService) ListLowStockProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *mapToProductResponse(&products[i]))
	}
	return responses, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, subjectID uuid.UUID, id string, req UpdateProductRequest) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid product id")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.SalePrice != "" {
		product.SalePrice, err = parsePrice(req.SalePrice, "sale_price")
		if err != nil {
			return nil, err
		}
	}
	if req.PurchasePrice != "" {
		product.PurchasePrice, err = parsePrice(req.PurchasePrice, "purchase_price")
		if err != nil {
			return nil, err
		}
	}
	if req.MinimumStock != nil {
		if *req.MinimumStock < 0 {
			return nil, apperr.Validation("minimum_stock must not be negative")
		}
		product.MinimumStock = *req.MinimumStock
	}
	if req.CategoryID != "" {
		categoryID, parseErr := uuid.Parse(req.CategoryID)
		if parseErr != nil {
			return nil, apperr.Validation("invalid category_id")
		}
		category, catErr := s.categoryRepo.FindByID(ctx, categoryID)
		if catErr != nil {
			return nil, apperr.NotFound("category not found")
		}
		product.CategoryID = &category.ID
		product.Category = category
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return err
		}
		return s.logActivity(txCtx, subjectID, model.ActionUpdateProduct, product.ID.String(), product.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	return mapToProductResponse(product), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, subjectID uuid.UUID, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid product id")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return apperr.NotFound("product not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, productID); err != nil {
			return err
		}
		return s.logActivity(txCtx, subjectID, model.ActionDeleteProduct, product.ID.String(), product.Name, nil)
	})
}

// AdjustStock applies a manual stock correction. The product row is locked so
// concurrent sales and adjustments serialize on it.
func (s *catalogService) AdjustStock(ctx context.Context, subjectID uuid.UUID, id string, req AdjustStockRequest) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid product id")
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err = s.productRepo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			return apperr.NotFound("product not found")
		}

		newStock := product.StockQuantity + req.Delta
		if newStock < 0 {
			return apperr.Validationf("stock cannot go below zero (current %d, delta %d)",
				product.StockQuantity, req.Delta)
		}
		product.StockQuantity = newStock

		if err := s.productRepo.UpdateStock(txCtx, productID, newStock); err != nil {
			return err
		}
		return s.logActivity(txCtx, subjectID, model.ActionUpdateProduct, product.ID.String(), product.Name,
			map[string]interface{}{"delta": req.Delta, "reason": req.Reason, "stock": newStock})
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStock(product)
	return mapToProductResponse(product), nil
}

func (s *catalogService) broadcastStock(product *model.Product) {
	s.hub.BroadcastEvent(websocket.Event{
		Event: websocket.EventStockChanged,
		Data: map[string]interface{}{
			"product_id": product.ID.String(),
			"sku":        product.SKU,
			"stock":      product.StockQuantity,
			"low_stock":  product.StockQuantity <= product.MinimumStock,
		},
	})
	if product.StockQuantity <= product.MinimumStock {
		s.logger.Warn("product stock at or below minimum",
			zap.String("sku", product.SKU),
			zap.Int("stock", product.StockQuantity),
			zap.Int("minimum", product.MinimumStock))
	}
}

func (s *catalogService) logActivity(ctx context.Context, subjectID uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	entry := &model.ActivityLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if subjectID != uuid.Nil {
		entry.UserID = &subjectID
	}
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal activity details: %w", err)
		}
		entry.Details = string(payload)
	}
	return s.activityRepo.Log(ctx, entry)
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validationf("invalid %s %q", field, raw)
	}
	if value.IsNegative() {
		return decimal.Zero, apperr.Validationf("%s must not be negative", field)
	}
	return value, nil
}
