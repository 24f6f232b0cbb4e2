package service

import (
	"context"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

type UpdateCustomerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type CustomerResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*CustomerResponse, error)
	ListCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService returns a new instance of CustomerService
func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func mapToCustomerResponse(customer *model.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             customer.ID.String(),
		FullName:       customer.FullName,
		DocumentNumber: customer.DocumentNumber,
		Email:          customer.Email,
		Phone:          customer.Phone,
		Address:        customer.Address,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if _, err := s.repo.FindByDocument(ctx, req.DocumentNumber); err == nil {
		return nil, apperr.Validation("document number already registered")
	}

	customer := &model.Customer{
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return mapToCustomerResponse(customer), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid customer id")
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apperr.NotFound("customer not found")
	}
	return mapToCustomerResponse(customer), nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *mapToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid customer id")
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apperr.NotFound("customer not found")
	}

	if req.FullName != "" {
		customer.FullName = req.FullName
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Address != "" {
		customer.Address = req.Address
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return mapToCustomerResponse(customer), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid customer id")
	}
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return apperr.NotFound("customer not found")
	}
	return s.repo.Delete(ctx, customerID)
}
