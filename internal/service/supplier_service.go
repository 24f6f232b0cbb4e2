package service

import (
	"context"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"

	"github.com/google/uuid"
)

type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	TaxID         string `json:"tax_id"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	IsActive      *bool  `json:"is_active"`
}

type SupplierResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IsActive      bool   `json:"is_active"`
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error)
	GetSupplier(ctx context.Context, id string) (*SupplierResponse, error)
	ListSuppliers(ctx context.Context, page, limit int, search string) ([]SupplierResponse, int64, error)
	UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (*SupplierResponse, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

// NewSupplierService returns a new instance of SupplierService
func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func mapToSupplierResponse(supplier *model.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            supplier.ID.String(),
		Name:          supplier.Name,
		TaxID:         supplier.TaxID,
		ContactPerson: supplier.ContactPerson,
		Phone:         supplier.Phone,
		Email:         supplier.Email,
		Address:       supplier.Address,
		IsActive:      supplier.IsActive,
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier := &model.Supplier{
		Name:          req.Name,
		TaxID:         req.TaxID,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return mapToSupplierResponse(supplier), nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id string) (*SupplierResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid supplier id")
	}
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, apperr.NotFound("supplier not found")
	}
	return mapToSupplierResponse(supplier), nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, page, limit int, search string) ([]SupplierResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	suppliers, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, *mapToSupplierResponse(&suppliers[i]))
	}
	return responses, total, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid supplier id")
	}
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, apperr.NotFound("supplier not found")
	}

	if req.Name != "" {
		supplier.Name = req.Name
	}
	if req.ContactPerson != "" {
		supplier.ContactPerson = req.ContactPerson
	}
	if req.Phone != "" {
		supplier.Phone = req.Phone
	}
	if req.Email != "" {
		supplier.Email = req.Email
	}
	if req.Address != "" {
		supplier.Address = req.Address
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return mapToSupplierResponse(supplier), nil
}

// DeleteSupplier refuses to remove a supplier that still has open purchase orders
func (s *supplierService) DeleteSupplier(ctx context.Context, id string) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid supplier id")
	}
	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		return apperr.NotFound("supplier not found")
	}

	open, err := s.repo.CountOpenOrders(ctx, supplierID)
	if err != nil {
		return err
	}
	if open > 0 {
		return apperr.Conflict("supplier has open purchase orders")
	}

	return s.repo.Delete(ctx, supplierID)
}
