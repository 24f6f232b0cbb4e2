package service

import (
	"testing"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestOrder(status string, items ...model.PurchaseOrderItem) *model.PurchaseOrder {
	order := &model.PurchaseOrder{
		ID:          uuid.New(),
		OrderNumber: "OC-202501-0001",
		SupplierID:  uuid.New(),
		Status:      status,
		OrderDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Items:       items,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	order.TotalAmount = ComputeOrderTotal(order.Items)
	return order
}

func item(price string, qty int) model.PurchaseOrderItem {
	return model.PurchaseOrderItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestComputeOrderTotalExact(t *testing.T) {
	// Scenario: (4000 x 100) + (500 x 200) = 500000, exactly
	items := []model.PurchaseOrderItem{item("4000", 100), item("500", 200)}
	total := ComputeOrderTotal(items)
	require.True(t, total.Equal(decimal.RequireFromString("500000")), "got %s", total)

	// fractional prices must not drift
	items = []model.PurchaseOrderItem{item("0.10", 3), item("0.20", 1)}
	require.True(t, ComputeOrderTotal(items).Equal(decimal.RequireFromString("0.50")))

	require.True(t, ComputeOrderTotal(nil).Equal(decimal.Zero))
}

func TestComputeOrderTotalRecomputedAfterMutation(t *testing.T) {
	order := newTestOrder(model.OrderStatusDraft, item("4000", 100))
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("400000")))

	order.Items = append(order.Items, item("500", 200))
	order.TotalAmount = ComputeOrderTotal(order.Items)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("500000")))

	order.Items = order.Items[:1]
	order.TotalAmount = ComputeOrderTotal(order.Items)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("400000")))
}

func TestTransitionClosure(t *testing.T) {
	all := []string{
		model.OrderStatusDraft, model.OrderStatusSubmitted, model.OrderStatusConfirmed,
		model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled,
	}
	now := time.Now()

	for _, from := range all {
		for _, to := range all {
			order := newTestOrder(from, item("10", 1))
			_, err := PlanTransition(order, TransitionRequest{Target: to}, now)
			if CanTransition(from, to) {
				// guards may still reject (e.g. DELIVERED without a delivery date)
				if err != nil {
					require.ErrorIs(t, err, apperr.Validation(""), "%s -> %s", from, to)
				}
			} else {
				require.ErrorIs(t, err, apperr.InvalidTransition(""), "%s -> %s", from, to)
				require.Equal(t, from, order.Status, "status must be untouched on rejection")
			}
		}
	}
}

func TestDraftCannotSkipToDelivered(t *testing.T) {
	order := newTestOrder(model.OrderStatusDraft, item("4000", 100))
	now := time.Now()

	_, err := PlanTransition(order, TransitionRequest{Target: model.OrderStatusDelivered, ActualDeliveryDate: &now}, now)
	require.ErrorIs(t, err, apperr.InvalidTransition(""))
	require.Equal(t, model.OrderStatusDraft, order.Status)
}

func TestSubmitGuards(t *testing.T) {
	now := time.Now()

	empty := newTestOrder(model.OrderStatusDraft)
	_, err := PlanTransition(empty, TransitionRequest{Target: model.OrderStatusSubmitted}, now)
	require.ErrorIs(t, err, apperr.Validation(""))

	badQty := newTestOrder(model.OrderStatusDraft, item("10", 0))
	_, err = PlanTransition(badQty, TransitionRequest{Target: model.OrderStatusSubmitted}, now)
	require.ErrorIs(t, err, apperr.Validation(""))

	negPrice := newTestOrder(model.OrderStatusDraft, item("-1", 5))
	_, err = PlanTransition(negPrice, TransitionRequest{Target: model.OrderStatusSubmitted}, now)
	require.ErrorIs(t, err, apperr.Validation(""))

	ok := newTestOrder(model.OrderStatusDraft, item("10", 5))
	plan, err := PlanTransition(ok, TransitionRequest{Target: model.OrderStatusSubmitted}, now)
	require.NoError(t, err)
	require.Len(t, plan.Events, 1)
	require.Equal(t, model.TrackingOrderCreated, plan.Events[0].StatusLabel)
	require.Nil(t, plan.Payment, "no payment before confirmation")
}

func TestConfirmCreatesPendingPayment(t *testing.T) {
	// Scenario: confirming the 500000 order yields exactly one PENDING payment
	order := newTestOrder(model.OrderStatusSubmitted, item("4000", 100), item("500", 200))
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	plan, err := PlanTransition(order, TransitionRequest{Target: model.OrderStatusConfirmed}, now)
	require.NoError(t, err)
	require.Len(t, plan.Events, 1)
	require.Equal(t, model.TrackingOrderConfirmed, plan.Events[0].StatusLabel)
	require.NotNil(t, plan.Payment)
	require.True(t, plan.Payment.Create)
	require.Equal(t, model.PaymentPending, plan.Payment.Status)
	require.NotNil(t, plan.Payment.DueDate)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("500000")))
}

func TestShipAdvancesPaymentToProcessing(t *testing.T) {
	order := newTestOrder(model.OrderStatusConfirmed, item("10", 5))
	plan, err := PlanTransition(order, TransitionRequest{Target: model.OrderStatusShipped}, time.Now())
	require.NoError(t, err)
	require.Equal(t, model.TrackingOrderShipped, plan.Events[0].StatusLabel)
	require.NotNil(t, plan.Payment)
	require.False(t, plan.Payment.Create)
	require.Equal(t, model.PaymentProcessing, plan.Payment.Status)
}

func TestDeliveryRequiresActualDate(t *testing.T) {
	order := newTestOrder(model.OrderStatusShipped, item("10", 5))
	now := time.Now()

	_, err := PlanTransition(order, TransitionRequest{Target: model.OrderStatusDelivered}, now)
	require.ErrorIs(t, err, apperr.Validation(""))

	delivered := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	plan, err := PlanTransition(order, TransitionRequest{
		Target:             model.OrderStatusDelivered,
		ActualDeliveryDate: &delivered,
	}, now)
	require.NoError(t, err)

	labels := make([]string, 0, len(plan.Events))
	for i, e := range plan.Events {
		labels = append(labels, e.StatusLabel)
		// all three share OccurredAt, so the sequence is the only tiebreak
		require.Equal(t, i, e.Sequence)
	}
	require.Equal(t, []string{
		model.TrackingInTransit,
		model.TrackingDelivered,
		model.TrackingOrderCompleted,
	}, labels)
	require.Equal(t, model.PaymentCompleted, plan.Payment.Status)
	require.Equal(t, delivered, *plan.Payment.PaymentDate)
	require.True(t, plan.ReceiveItems)
	require.Equal(t, delivered, *plan.ActualDeliveryDate)
}

func TestCancelFromEveryNonTerminalState(t *testing.T) {
	now := time.Now()
	for _, from := range []string{
		model.OrderStatusDraft, model.OrderStatusSubmitted,
		model.OrderStatusConfirmed, model.OrderStatusShipped,
	} {
		order := newTestOrder(from, item("10", 5))
		plan, err := PlanTransition(order, TransitionRequest{Target: model.OrderStatusCancelled}, now)
		require.NoError(t, err, "cancel from %s", from)
		require.Len(t, plan.Events, 1)
		require.Equal(t, model.TrackingOrderCancelled, plan.Events[0].StatusLabel)
		require.Nil(t, plan.Payment, "cancellation never advances a payment")
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	now := time.Now()
	for _, terminal := range []string{model.OrderStatusDelivered, model.OrderStatusCancelled} {
		order := newTestOrder(terminal, item("10", 5))
		for _, target := range []string{
			model.OrderStatusDraft, model.OrderStatusSubmitted, model.OrderStatusConfirmed,
			model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled,
		} {
			_, err := PlanTransition(order, TransitionRequest{Target: target}, now)
			require.ErrorIs(t, err, apperr.InvalidTransition(""), "%s -> %s", terminal, target)
		}
	}
}

func TestProjectionIsDeterministic(t *testing.T) {
	// Replaying the same transition sequence against two fresh copies of the
	// same initial order must produce identical event sequences and the same
	// final payment status.
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	delivered := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	run := func() ([]model.TrackingEvent, string) {
		order := newTestOrder(model.OrderStatusDraft, item("4000", 100), item("500", 200))
		var events []model.TrackingEvent
		var paymentStatus string

		steps := []TransitionRequest{
			{Target: model.OrderStatusSubmitted},
			{Target: model.OrderStatusConfirmed},
			{Target: model.OrderStatusShipped},
			{Target: model.OrderStatusDelivered, ActualDeliveryDate: &delivered},
		}
		clock := now
		for _, step := range steps {
			plan, err := PlanTransition(order, step, clock)
			require.NoError(t, err)
			events = append(events, plan.Events...)
			if plan.Payment != nil {
				paymentStatus = plan.Payment.Status
			}
			order.Status = plan.To
			clock = clock.Add(24 * time.Hour)
		}
		return events, paymentStatus
	}

	firstEvents, firstPayment := run()
	secondEvents, secondPayment := run()

	require.Equal(t, firstPayment, secondPayment)
	require.Equal(t, model.PaymentCompleted, firstPayment)
	require.Len(t, firstEvents, len(secondEvents))
	for i := range firstEvents {
		require.Equal(t, firstEvents[i].StatusLabel, secondEvents[i].StatusLabel)
		require.Equal(t, firstEvents[i].OccurredAt, secondEvents[i].OccurredAt)
	}

	// event timestamps are monotonically non-decreasing
	for i := 1; i < len(firstEvents); i++ {
		require.False(t, firstEvents[i].OccurredAt.Before(firstEvents[i-1].OccurredAt))
	}
}

func TestValidateOrderItems(t *testing.T) {
	require.NoError(t, ValidateOrderItems([]model.PurchaseOrderItem{item("0", 1)}))
	require.ErrorIs(t, ValidateOrderItems([]model.PurchaseOrderItem{item("1", -2)}), apperr.Validation(""))
	require.ErrorIs(t, ValidateOrderItems([]model.PurchaseOrderItem{item("-0.01", 2)}), apperr.Validation(""))
}
