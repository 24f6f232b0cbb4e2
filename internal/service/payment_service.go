package service

import (
	"context"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"order_id"`
	SupplierID    string  `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name,omitempty"`
	Amount        string  `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	InvoiceNumber string  `json:"invoice_number"`
	DueDate       *string `json:"due_date"`
	PaymentDate   *string `json:"payment_date"`
}

type UpdatePaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// PaymentService exposes supplier payments. Payment status is never set
// directly here; it only advances through order lifecycle transitions. The
// payment method is the single mutable field.
type PaymentService interface {
	GetPayment(ctx context.Context, id string) (*PaymentResponse, error)
	GetPaymentByOrder(ctx context.Context, orderID string) (*PaymentResponse, error)
	ListPayments(ctx context.Context, page, limit int, status string) ([]PaymentResponse, int64, error)
	UpdatePaymentMethod(ctx context.Context, id string, req UpdatePaymentMethodRequest) (*PaymentResponse, error)
}

type paymentService struct {
	repo repository.PaymentRepository
}

// NewPaymentService returns a new instance of PaymentService
func NewPaymentService(repo repository.PaymentRepository) PaymentService {
	return &paymentService{repo: repo}
}

func mapToPaymentResponse(payment *model.Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:            payment.ID.String(),
		OrderID:       payment.OrderID.String(),
		SupplierID:    payment.SupplierID.String(),
		Amount:        payment.Amount.StringFixed(4),
		Method:        payment.Method,
		Status:        payment.Status,
		InvoiceNumber: payment.InvoiceNumber,
	}
	if payment.Supplier != nil {
		resp.SupplierName = payment.Supplier.Name
	}
	if payment.DueDate != nil {
		d := payment.DueDate.Format("2006-01-02")
		resp.DueDate = &d
	}
	if payment.PaymentDate != nil {
		d := payment.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}
	return resp
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid payment id")
	}
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, apperr.NotFound("payment not found")
	}
	return mapToPaymentResponse(payment), nil
}

func (s *paymentService) GetPaymentByOrder(ctx context.Context, orderID string) (*PaymentResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}
	payment, err := s.repo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("payment not found for order")
	}
	return mapToPaymentResponse(payment), nil
}

func (s *paymentService) ListPayments(ctx context.Context, page, limit int, status string) ([]PaymentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	payments, total, err := s.repo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *mapToPaymentResponse(&payments[i]))
	}
	return responses, total, nil
}

func (s *paymentService) UpdatePaymentMethod(ctx context.Context, id string, req UpdatePaymentMethodRequest) (*PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid payment id")
	}

	switch req.Method {
	case model.PaymentMethodTransfer, model.PaymentMethodCash, model.PaymentMethodCheck:
	default:
		return nil, apperr.Validationf("unknown payment method %q", req.Method)
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, apperr.NotFound("payment not found")
	}
	if payment.Status == model.PaymentCompleted {
		return nil, apperr.Validation("completed payments cannot be modified")
	}

	payment.Method = req.Method
	payment.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return mapToPaymentResponse(payment), nil
}
