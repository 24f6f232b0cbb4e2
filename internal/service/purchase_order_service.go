package service

import (
	"context"
	"encoding/json"
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

// --- DTOs ---

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID           string             `json:"supplier_id" binding:"required"`
	OrderDate            string             `json:"order_date"`
	ExpectedDeliveryDate string             `json:"expected_delivery_date"`
	Notes                string             `json:"notes"`
	Items                []OrderItemRequest `json:"items"`
}

type UpdateOrderItemRequest struct {
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

type PurchaseOrderResponse struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"order_number"`
	SupplierID           string              `json:"supplier_id"`
	SupplierName         string              `json:"supplier_name"`
	Status               string              `json:"status"`
	OrderDate            string              `json:"order_date"`
	ExpectedDeliveryDate *string             `json:"expected_delivery_date"`
	ActualDeliveryDate   *string             `json:"actual_delivery_date"`
	TotalAmount          string              `json:"total_amount"`
	Notes                string              `json:"notes"`
	Version              int                 `json:"version"`
	Items                []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ID               string `json:"id"`
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	Quantity         int    `json:"quantity"`
	UnitPrice        string `json:"unit_price"`
	ReceivedQuantity int    `json:"received_quantity"`
}

// --- Interface ---

type PurchaseOrderService interface {
	CreateOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (PurchaseOrderResponse, error)
	GetOrder(ctx context.Context, id string) (PurchaseOrderResponse, error)
	ListOrders(ctx context.Context, page, limit int, status string) ([]PurchaseOrderResponse, int64, error)
	AddItem(ctx context.Context, orderID string, req OrderItemRequest) (PurchaseOrderResponse, error)
	UpdateItem(ctx context.Context, orderID, itemID string, req UpdateOrderItemRequest) (PurchaseOrderResponse, error)
	RemoveItem(ctx context.Context, orderID, itemID string) (PurchaseOrderResponse, error)
	Transition(ctx context.Context, userID, orderID string, req TransitionRequest) (PurchaseOrderResponse, error)
	ListTrackingEvents(ctx context.Context, orderID string) ([]model.TrackingEvent, error)
}

type purchaseOrderService struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	paymentRepo  repository.PaymentRepository
	activityRepo repository.ActivityRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	logger       *zap.Logger
}

func NewPurchaseOrderService(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		hub:          hub,
		logger:       logger,
	}
}

// --- Implementation ---

func (s *purchaseOrderService) CreateOrder(ctx context.Context, userID string, req CreatePurchaseOrderRequest) (PurchaseOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid supplier_id")
	}

	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseOrderResponse{}, apperr.NotFound("supplier not found")
		}
		return PurchaseOrderResponse{}, err
	}

	orderDate := time.Now().UTC()
	if req.OrderDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.OrderDate)
		if parseErr != nil {
			return PurchaseOrderResponse{}, apperr.Validation("order_date must be YYYY-MM-DD")
		}
		orderDate = parsed
	}

	var expected *time.Time
	if req.ExpectedDeliveryDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.ExpectedDeliveryDate)
		if parseErr != nil {
			return PurchaseOrderResponse{}, apperr.Validation("expected_delivery_date must be YYYY-MM-DD")
		}
		expected = &parsed
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	order := model.PurchaseOrder{
		SupplierID:           supplierID,
		Status:               model.OrderStatusDraft,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		Notes:                req.Notes,
		Items:                items,
		TotalAmount:          ComputeOrderTotal(items),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, seqErr := s.orderRepo.NextOrderSequence(txCtx, "OC-")
		if seqErr != nil {
			return fmt.Errorf("failed to generate order number: %w", seqErr)
		}
		order.OrderNumber = fmt.Sprintf("OC-%s-%04d", time.Now().UTC().Format("200601"), seq)

		if createErr := s.orderRepo.Create(txCtx, &order); createErr != nil {
			return fmt.Errorf("failed to create purchase order: %w", createErr)
		}

		return s.logActivity(txCtx, userID, model.ActionCreatePurchaseOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"supplier_id": order.SupplierID.String(),
			"items":       len(order.Items),
			"total":       order.TotalAmount.StringFixed(4),
		})
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	return s.reload(ctx, order.ID)
}

func (s *purchaseOrderService) GetOrder(ctx context.Context, id string) (PurchaseOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid order id")
	}
	return s.reload(ctx, orderID)
}

func (s *purchaseOrderService) ListOrders(ctx context.Context, page, limit int, status string) ([]PurchaseOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	orders, total, err := s.orderRepo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}
	return res, total, nil
}

// AddItem appends a line item to a DRAFT order and recomputes the total
func (s *purchaseOrderService) AddItem(ctx context.Context, orderID string, req OrderItemRequest) (PurchaseOrderResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid order id")
	}

	items, err := s.buildItems(ctx, []OrderItemRequest{req})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}
	item := items[0]

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, loadErr := s.loadMutableOrder(txCtx, id)
		if loadErr != nil {
			return loadErr
		}

		item.OrderID = order.ID
		if createErr := s.orderRepo.CreateItem(txCtx, &item); createErr != nil {
			return fmt.Errorf("failed to add item: %w", createErr)
		}

		order.Items = append(order.Items, item)
		return s.orderRepo.UpdateTotal(txCtx, order.ID, ComputeOrderTotal(order.Items))
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	return s.reload(ctx, id)
}

// UpdateItem changes quantity/price of a line item on a DRAFT order
func (s *purchaseOrderService) UpdateItem(ctx context.Context, orderID, itemID string, req UpdateOrderItemRequest) (PurchaseOrderResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid order id")
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid item id")
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("unit_price must be a decimal string")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, loadErr := s.loadMutableOrder(txCtx, id)
		if loadErr != nil {
			return loadErr
		}

		item, findErr := s.orderRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order item not found")
			}
			return findErr
		}
		if item.OrderID != order.ID {
			return apperr.NotFound("order item not found")
		}

		item.Quantity = req.Quantity
		item.UnitPrice = unitPrice
		if valErr := ValidateOrderItems([]model.PurchaseOrderItem{*item}); valErr != nil {
			return valErr
		}

		if saveErr := s.orderRepo.UpdateItem(txCtx, item); saveErr != nil {
			return fmt.Errorf("failed to update item: %w", saveErr)
		}

		for i := range order.Items {
			if order.Items[i].ID == item.ID {
				order.Items[i] = *item
			}
		}
		return s.orderRepo.UpdateTotal(txCtx, order.ID, ComputeOrderTotal(order.Items))
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	return s.reload(ctx, id)
}

// RemoveItem deletes a line item from a DRAFT order
func (s *purchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID string) (PurchaseOrderResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid order id")
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid item id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, loadErr := s.loadMutableOrder(txCtx, id)
		if loadErr != nil {
			return loadErr
		}

		item, findErr := s.orderRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order item not found")
			}
			return findErr
		}
		if item.OrderID != order.ID {
			return apperr.NotFound("order item not found")
		}

		if delErr := s.orderRepo.DeleteItem(txCtx, lineID); delErr != nil {
			return fmt.Errorf("failed to remove item: %w", delErr)
		}

		remaining := order.Items[:0]
		for _, existing := range order.Items {
			if existing.ID != lineID {
				remaining = append(remaining, existing)
			}
		}
		return s.orderRepo.UpdateTotal(txCtx, order.ID, ComputeOrderTotal(remaining))
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	return s.reload(ctx, id)
}

// Transition runs one lifecycle step atomically: status CAS, tracking events,
// payment creation/advancement and item receiving all commit together or not
// at all. A lost CAS race surfaces as a conflict error; the caller reloads and
// retries explicitly.
func (s *purchaseOrderService) Transition(ctx context.Context, userID, orderID string, req TransitionRequest) (PurchaseOrderResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return PurchaseOrderResponse{}, apperr.Validation("invalid order id")
	}

	var plan TransitionPlan
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, loadErr := s.orderRepo.FindByIDWithItems(txCtx, id)
		if loadErr != nil {
			if errors.Is(loadErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("purchase order not found")
			}
			return loadErr
		}

		now := time.Now().UTC()
		var planErr error
		plan, planErr = PlanTransition(order, req, now)
		if planErr != nil {
			return planErr
		}

		updates := map[string]interface{}{"status": plan.To}
		if plan.ActualDeliveryDate != nil {
			updates["actual_delivery_date"] = *plan.ActualDeliveryDate
		}
		if casErr := s.orderRepo.CompareAndSwapStatus(txCtx, order.ID, order.Version, updates); casErr != nil {
			if errors.Is(casErr, repository.ErrVersionConflict) {
				return apperr.Conflict("purchase order was modified concurrently, reload and retry")
			}
			return casErr
		}

		if eventErr := s.orderRepo.CreateTrackingEvents(txCtx, plan.Events); eventErr != nil {
			return fmt.Errorf("failed to record tracking events: %w", eventErr)
		}

		if plan.Payment != nil {
			if payErr := s.applyPaymentDirective(txCtx, order, plan.Payment); payErr != nil {
				return payErr
			}
		}

		if plan.ReceiveItems {
			if recvErr := s.orderRepo.SetReceivedQuantities(txCtx, order.ID); recvErr != nil {
				return fmt.Errorf("failed to set received quantities: %w", recvErr)
			}
		}

		return s.logActivity(txCtx, userID, model.ActionTransitionOrder, order.ID.String(), order.OrderNumber, map[string]interface{}{
			"from": plan.From,
			"to":   plan.To,
		})
	})
	if err != nil {
		return PurchaseOrderResponse{}, err
	}

	s.logger.Info("purchase order transitioned",
		zap.String("order_id", orderID),
		zap.String("from", plan.From),
		zap.String("to", plan.To),
	)

	for _, event := range plan.Events {
		s.hub.BroadcastEvent(ws.Event{
			Event: ws.EventOrderTracking,
			Data: map[string]interface{}{
				"order_id":     orderID,
				"status_label": event.StatusLabel,
				"occurred_at":  event.OccurredAt,
			},
		})
	}

	return s.reload(ctx, id)
}

func (s *purchaseOrderService) ListTrackingEvents(ctx context.Context, orderID string) ([]model.TrackingEvent, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}
	if _, err := s.orderRepo.FindByIDWithItems(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase order not found")
		}
		return nil, err
	}
	return s.orderRepo.ListTrackingEvents(ctx, id)
}

// --- helpers ---

// applyPaymentDirective creates or advances the order's payment per the plan
func (s *purchaseOrderService) applyPaymentDirective(ctx context.Context, order *model.PurchaseOrder, directive *PaymentDirective) error {
	if directive.Create {
		seq, err := s.paymentRepo.CountByInvoicePrefix(ctx, "INV-")
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}
		payment := model.Payment{
			OrderID:       order.ID,
			SupplierID:    order.SupplierID,
			Amount:        order.TotalAmount,
			Method:        model.PaymentMethodTransfer,
			Status:        directive.Status,
			InvoiceNumber: fmt.Sprintf("INV-%s-%04d", time.Now().UTC().Format("200601"), seq+1),
			DueDate:       directive.DueDate,
		}
		if err := s.paymentRepo.Create(ctx, &payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return nil
	}

	payment, err := s.paymentRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("payment not found for order")
		}
		return err
	}
	payment.Status = directive.Status
	if directive.PaymentDate != nil {
		payment.PaymentDate = directive.PaymentDate
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

// loadMutableOrder fetches an order and enforces that items may still change.
// Orders past DRAFT have frozen line items; terminal orders are fully locked.
func (s *purchaseOrderService) loadMutableOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase order not found")
		}
		return nil, err
	}
	if IsTerminalStatus(order.Status) {
		return nil, apperr.Validationf("order %s is %s and locked", order.OrderNumber, order.Status)
	}
	if order.Status != model.OrderStatusDraft {
		return nil, apperr.Validationf("items can only be modified while the order is in %s status", model.OrderStatusDraft)
	}
	return order, nil
}

func (s *purchaseOrderService) buildItems(ctx context.Context, reqs []OrderItemRequest) ([]model.PurchaseOrderItem, error) {
	items := make([]model.PurchaseOrderItem, 0, len(reqs))
	for _, req := range reqs {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, apperr.Validation("invalid product_id")
		}
		if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFoundf("product %s not found", req.ProductID)
			}
			return nil, err
		}
		unitPrice, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, apperr.Validation("unit_price must be a decimal string")
		}
		item := model.PurchaseOrderItem{
			ProductID: productID,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
		}
		if err := ValidateOrderItems([]model.PurchaseOrderItem{item}); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *purchaseOrderService) logActivity(ctx context.Context, userID, action, entityID, entityName string, details map[string]interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.ActivityLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.activityRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}
	return nil
}

func (s *purchaseOrderService) reload(ctx context.Context, id uuid.UUID) (PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseOrderResponse{}, apperr.NotFound("purchase order not found")
		}
		return PurchaseOrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func toOrderResponse(order *model.PurchaseOrder) PurchaseOrderResponse {
	res := PurchaseOrderResponse{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,
		SupplierID:  order.SupplierID.String(),
		Status:      order.Status,
		OrderDate:   order.OrderDate.Format("2006-01-02"),
		TotalAmount: order.TotalAmount.StringFixed(4),
		Notes:       order.Notes,
		Version:     order.Version,
	}
	if order.Supplier != nil {
		res.SupplierName = order.Supplier.Name
	}
	if order.ExpectedDeliveryDate != nil {
		d := order.ExpectedDeliveryDate.Format("2006-01-02")
		res.ExpectedDeliveryDate = &d
	}
	if order.ActualDeliveryDate != nil {
		d := order.ActualDeliveryDate.Format("2006-01-02")
		res.ActualDeliveryDate = &d
	}
	for _, item := range order.Items {
		line := OrderItemResponse{
			ID:               item.ID.String(),
			ProductID:        item.ProductID.String(),
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice.StringFixed(4),
			ReceivedQuantity: item.ReceivedQuantity,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		res.Items = append(res.Items, line)
	}
	return res
}
