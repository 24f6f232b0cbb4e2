package service

import (
	"context"
	"testing"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"
	ws "sigrap/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// passthroughTx runs the callback directly and tracks whether it is active,
// so the fakes below can record which calls happened inside the transaction.
type passthroughTx struct {
	active bool
}

func (t *passthroughTx) RunInTx(_ context.Context, fn func(txCtx context.Context) error) error {
	t.active = true
	defer func() { t.active = false }()
	return fn(context.Background())
}

// fakeOrderRepo stubs just the calls the transition path uses
type fakeOrderRepo struct {
	repository.PurchaseOrderRepository

	tx     *passthroughTx
	order  *model.PurchaseOrder
	casErr error

	events       []model.TrackingEvent
	eventsInTx   bool
	received     bool
	receivedInTx bool
}

func (f *fakeOrderRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	if f.order != nil && f.order.ID == id {
		return f.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) CompareAndSwapStatus(_ context.Context, _ uuid.UUID, _ int, updates map[string]interface{}) error {
	if f.casErr != nil {
		return f.casErr
	}
	f.order.Status = updates["status"].(string)
	f.order.Version++
	return nil
}

func (f *fakeOrderRepo) CreateTrackingEvents(_ context.Context, events []model.TrackingEvent) error {
	f.events = append(f.events, events...)
	f.eventsInTx = f.tx.active
	return nil
}

func (f *fakeOrderRepo) SetReceivedQuantities(_ context.Context, _ uuid.UUID) error {
	f.received = true
	f.receivedInTx = f.tx.active
	return nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository

	tx          *passthroughTx
	payment     *model.Payment
	createdInTx bool
}

func (f *fakePaymentRepo) CountByInvoicePrefix(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	payment.ID = uuid.New()
	f.payment = payment
	f.createdInTx = f.tx.active
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*model.Payment, error) {
	if f.payment != nil && f.payment.OrderID == orderID {
		return f.payment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) Update(_ context.Context, payment *model.Payment) error {
	f.payment = payment
	return nil
}

type fakeActivityRepo struct {
	repository.ActivityRepository

	entries []*model.ActivityLog
}

func (f *fakeActivityRepo) Log(_ context.Context, entry *model.ActivityLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type transitionFixture struct {
	orders   *fakeOrderRepo
	payments *fakePaymentRepo
	activity *fakeActivityRepo
	svc      PurchaseOrderService
}

func newTransitionFixture(order *model.PurchaseOrder) *transitionFixture {
	tx := &passthroughTx{}
	orders := &fakeOrderRepo{tx: tx, order: order}
	payments := &fakePaymentRepo{tx: tx}
	activity := &fakeActivityRepo{}
	logger := zap.NewNop()
	svc := NewPurchaseOrderService(orders, nil, nil, payments, activity, tx, ws.NewHub(logger), logger)
	return &transitionFixture{orders: orders, payments: payments, activity: activity, svc: svc}
}

func TestTransitionVersionConflictMapsToConflict(t *testing.T) {
	order := newTestOrder(model.OrderStatusSubmitted, item("4000", 100))
	fx := newTransitionFixture(order)
	fx.orders.casErr = repository.ErrVersionConflict

	_, err := fx.svc.Transition(context.Background(), uuid.NewString(), order.ID.String(),
		TransitionRequest{Target: model.OrderStatusConfirmed})

	assert.ErrorIs(t, err, apperr.Conflict(""))
	assert.Empty(t, fx.orders.events, "a lost race must write no tracking events")
	assert.Nil(t, fx.payments.payment, "a lost race must create no payment")
	assert.Empty(t, fx.activity.entries)
	assert.Equal(t, model.OrderStatusSubmitted, order.Status)
}

func TestTransitionConfirmAppliesSideEffectsAtomically(t *testing.T) {
	order := newTestOrder(model.OrderStatusSubmitted, item("4000", 100), item("500", 200))
	fx := newTransitionFixture(order)

	res, err := fx.svc.Transition(context.Background(), uuid.NewString(), order.ID.String(),
		TransitionRequest{Target: model.OrderStatusConfirmed})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, res.Status)
	assert.Equal(t, 1, order.Version)

	require.Len(t, fx.orders.events, 1)
	assert.Equal(t, model.TrackingOrderConfirmed, fx.orders.events[0].StatusLabel)
	assert.True(t, fx.orders.eventsInTx, "tracking events must be written inside the transaction")

	require.NotNil(t, fx.payments.payment)
	assert.True(t, fx.payments.createdInTx, "the payment must be created inside the transaction")
	assert.Equal(t, model.PaymentPending, fx.payments.payment.Status)
	assert.True(t, fx.payments.payment.Amount.Equal(decimal.RequireFromString("500000")))
	assert.NotNil(t, fx.payments.payment.DueDate)

	require.Len(t, fx.activity.entries, 1)
	assert.Equal(t, model.ActionTransitionOrder, fx.activity.entries[0].Action)
}

func TestTransitionDeliveredReceivesItemsAndCompletesPayment(t *testing.T) {
	order := newTestOrder(model.OrderStatusShipped, item("10", 5))
	fx := newTransitionFixture(order)
	fx.payments.payment = &model.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		Amount:  order.TotalAmount,
		Status:  model.PaymentProcessing,
	}

	delivered := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	res, err := fx.svc.Transition(context.Background(), uuid.NewString(), order.ID.String(),
		TransitionRequest{Target: model.OrderStatusDelivered, ActualDeliveryDate: &delivered})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusDelivered, res.Status)
	assert.True(t, fx.orders.received)
	assert.True(t, fx.orders.receivedInTx, "received quantities must be set inside the transaction")

	assert.Equal(t, model.PaymentCompleted, fx.payments.payment.Status)
	require.NotNil(t, fx.payments.payment.PaymentDate)
	assert.Equal(t, delivered, *fx.payments.payment.PaymentDate)

	labels := make([]string, 0, len(fx.orders.events))
	for _, e := range fx.orders.events {
		labels = append(labels, e.StatusLabel)
	}
	assert.Equal(t, []string{
		model.TrackingInTransit,
		model.TrackingDelivered,
		model.TrackingOrderCompleted,
	}, labels)
}
