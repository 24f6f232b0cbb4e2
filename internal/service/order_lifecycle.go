package service

import (
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"

	"github.com/shopspring/decimal"
)

// validTransitions is the closed lifecycle table:
// DRAFT → SUBMITTED → CONFIRMED → SHIPPED → DELIVERED, with CANCELLED
// reachable from every non-terminal state. Anything else is rejected.
var validTransitions = map[string][]string{
	model.OrderStatusDraft:     {model.OrderStatusSubmitted, model.OrderStatusCancelled},
	model.OrderStatusSubmitted: {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered, model.OrderStatusCancelled},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

// IsTerminalStatus reports whether no further transition or mutation is allowed
func IsTerminalStatus(status string) bool {
	return status == model.OrderStatusDelivered || status == model.OrderStatusCancelled
}

// CanTransition checks the lifecycle table without evaluating guards
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionRequest is a requested status change for a purchase order
type TransitionRequest struct {
	Target             string     `json:"target_status" binding:"required"`
	ActualDeliveryDate *time.Time `json:"actual_delivery_date"`
	Location           string     `json:"location"`
	Notes              string     `json:"notes"`
}

// PaymentDirective describes what the transition does to the order's payment
type PaymentDirective struct {
	Create      bool
	Status      string
	DueDate     *time.Time
	PaymentDate *time.Time
}

// TransitionPlan is the full, deterministic side-effect bundle of one validated
// transition: the new status, the tracking events to append, the payment change
// and whether item received quantities are filled in. The plan is a pure
// function of (order state, request, now); replaying the same transition
// against the same state yields the same plan, which makes retries of a failed
// commit safe.
type TransitionPlan struct {
	From               string
	To                 string
	Events             []model.TrackingEvent
	Payment            *PaymentDirective
	ReceiveItems       bool
	ActualDeliveryDate *time.Time
}

// PlanTransition validates a requested transition against the lifecycle table
// and its guards, and derives the side-effect plan. It touches no storage.
func PlanTransition(order *model.PurchaseOrder, req TransitionRequest, now time.Time) (TransitionPlan, error) {
	if IsTerminalStatus(order.Status) {
		return TransitionPlan{}, apperr.InvalidTransitionf(
			"order %s is %s and can no longer change status", order.OrderNumber, order.Status)
	}
	if !CanTransition(order.Status, req.Target) {
		return TransitionPlan{}, apperr.InvalidTransitionf(
			"invalid transition %s -> %s", order.Status, req.Target)
	}

	plan := TransitionPlan{From: order.Status, To: req.Target}
	event := func(label string) {
		plan.Events = append(plan.Events, model.TrackingEvent{
			OrderID:     order.ID,
			StatusLabel: label,
			Location:    req.Location,
			Notes:       req.Notes,
			Sequence:    len(plan.Events),
			OccurredAt:  now,
		})
	}

	switch req.Target {
	case model.OrderStatusSubmitted:
		if len(order.Items) == 0 {
			return TransitionPlan{}, apperr.Validation("order must contain at least one item before submission")
		}
		if err := ValidateOrderItems(order.Items); err != nil {
			return TransitionPlan{}, err
		}
		event(model.TrackingOrderCreated)

	case model.OrderStatusConfirmed:
		event(model.TrackingOrderConfirmed)
		due := now.AddDate(0, 0, 30)
		if order.ExpectedDeliveryDate != nil {
			due = order.ExpectedDeliveryDate.AddDate(0, 0, 30)
		}
		plan.Payment = &PaymentDirective{Create: true, Status: model.PaymentPending, DueDate: &due}

	case model.OrderStatusShipped:
		event(model.TrackingOrderShipped)
		plan.Payment = &PaymentDirective{Status: model.PaymentProcessing}

	case model.OrderStatusDelivered:
		delivered := req.ActualDeliveryDate
		if delivered == nil {
			delivered = order.ActualDeliveryDate
		}
		if delivered == nil {
			return TransitionPlan{}, apperr.Validation("actual_delivery_date is required to mark an order delivered")
		}
		event(model.TrackingInTransit)
		event(model.TrackingDelivered)
		event(model.TrackingOrderCompleted)
		plan.Payment = &PaymentDirective{Status: model.PaymentCompleted, PaymentDate: delivered}
		plan.ReceiveItems = true
		plan.ActualDeliveryDate = delivered

	case model.OrderStatusCancelled:
		event(model.TrackingOrderCancelled)
	}

	return plan, nil
}

// ValidateOrderItems enforces the item invariants: quantity > 0, unit price ≥ 0
func ValidateOrderItems(items []model.PurchaseOrderItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return apperr.Validationf("item %s: quantity must be greater than zero", item.ProductID)
		}
		if item.UnitPrice.IsNegative() {
			return apperr.Validationf("item %s: unit price cannot be negative", item.ProductID)
		}
	}
	return nil
}

// ComputeOrderTotal derives the order total from scratch. Totals are always
// recomputed over all items rather than adjusted incrementally, so they cannot
// drift from the line items.
func ComputeOrderTotal(items []model.PurchaseOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
