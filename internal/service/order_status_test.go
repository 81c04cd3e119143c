package service

import (
	"context"
	"testing"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeDeliveryOrder(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	latte := menuItem("Latte", domain.CategoryHotBeverages, 30)
	require.NoError(t, f.menuRepo.Create(context.Background(), &latte))
	fillCart(t, f, latte, 1)

	result, err := f.orders.PlaceOrder(context.Background(), deliveryCheckout())
	require.NoError(t, err)
	return result.Order
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	f := newFixture()
	o := placeDeliveryOrder(t, f)

	_, err := f.status.UpdateStatus(context.Background(), o.ID.Hex(), domain.OrderDelivered, "", "staff-1")
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	stored, err := f.orderRepo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, stored.Status)
	assert.Empty(t, f.auditRepo.audits)
}

func TestUpdateStatusRecordsAudit(t *testing.T) {
	f := newFixture()
	o := placeDeliveryOrder(t, f)

	updated, err := f.status.UpdateStatus(context.Background(), o.ID.Hex(), domain.OrderPreparing, "started", "staff-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPreparing, updated.Status)

	history, err := f.status.History(context.Background(), o.ID.Hex())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.OrderPending, history[0].OldStatus)
	assert.Equal(t, domain.OrderPreparing, history[0].NewStatus)
	assert.Equal(t, "staff-1", history[0].ChangedBy)
	assert.Equal(t, "started", history[0].Reason)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture()
	o := placeDeliveryOrder(t, f)

	_, err := f.status.UpdateStatus(context.Background(), o.ID.Hex(), domain.OrderPending, "", "staff-1")
	require.NoError(t, err)
	assert.Empty(t, f.auditRepo.audits)
}

func TestDeliveryLifecycleTracksDriver(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := placeDeliveryOrder(t, f)
	id := o.ID.Hex()
	seen := f.drainStatusEvents(t, 0)

	_, err := f.status.UpdateStatus(ctx, id, domain.OrderPreparing, "", "staff-1")
	require.NoError(t, err)
	_, err = f.status.AssignDeliveryPerson(ctx, id, domain.DeliveryPerson{ID: "d-1", Name: "Sipho"}, "staff-1")
	require.NoError(t, err)
	seen = f.drainStatusEvents(t, seen)
	assert.Equal(t, 0, f.trackingRepo.activeCount(id))

	_, err = f.status.UpdateStatus(ctx, id, domain.OrderCompleted, "", "staff-1")
	require.NoError(t, err)
	seen = f.drainStatusEvents(t, seen)
	assert.Equal(t, 1, f.trackingRepo.activeCount(id))

	last := f.dispatcher.sent[len(f.dispatcher.sent)-1]
	msg, _ := order.MessageFor(order.MessageOutForDelivery)
	assert.Equal(t, msg.Title, last.Title)

	require.NoError(t, f.tracking.UpdateDriverLocation(ctx, id, domain.Location{Lat: -33.91, Lon: 18.44}))
	view, err := f.tracking.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.IsActive)
	assert.Greater(t, view.RemainingKm, 0.0)
	assert.Greater(t, view.ETAMinutes, 0)

	_, err = f.status.UpdateStatus(ctx, id, domain.OrderDelivered, "", "d-1")
	require.NoError(t, err)
	f.drainStatusEvents(t, seen)

	assert.Equal(t, 0, f.trackingRepo.activeCount(id))
	view, err = f.tracking.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.NotNil(t, view.StoppedAt)
}

func TestDriverAssignedAfterCompletionStartsTracking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := placeDeliveryOrder(t, f)
	id := o.ID.Hex()

	_, err := f.status.UpdateStatus(ctx, id, domain.OrderPreparing, "", "staff-1")
	require.NoError(t, err)
	_, err = f.status.UpdateStatus(ctx, id, domain.OrderCompleted, "", "staff-1")
	require.NoError(t, err)
	seen := f.drainStatusEvents(t, 0)
	assert.Equal(t, 0, f.trackingRepo.activeCount(id))

	_, err = f.status.AssignDeliveryPerson(ctx, id, domain.DeliveryPerson{ID: "d-1", Name: "Sipho"}, "staff-1")
	require.NoError(t, err)
	f.drainStatusEvents(t, seen)
	assert.Equal(t, 1, f.trackingRepo.activeCount(id))
}

func TestCancelStopsTracking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := placeDeliveryOrder(t, f)
	id := o.ID.Hex()

	_, err := f.status.UpdateStatus(ctx, id, domain.OrderPreparing, "", "staff-1")
	require.NoError(t, err)
	_, err = f.status.AssignDeliveryPerson(ctx, id, domain.DeliveryPerson{ID: "d-1", Name: "Sipho"}, "staff-1")
	require.NoError(t, err)
	_, err = f.status.UpdateStatus(ctx, id, domain.OrderCompleted, "", "staff-1")
	require.NoError(t, err)
	seen := f.drainStatusEvents(t, 0)
	require.Equal(t, 1, f.trackingRepo.activeCount(id))

	_, err = f.status.UpdateStatus(ctx, id, domain.OrderCancelled, "customer unreachable", "staff-1")
	require.NoError(t, err)
	f.drainStatusEvents(t, seen)
	assert.Equal(t, 0, f.trackingRepo.activeCount(id))
}

func TestAssignDeliveryPersonRejectsPickup(t *testing.T) {
	f := newFixture()
	o := &domain.Order{CustomerID: customerID, OrderType: domain.OrderTypePickup, Status: domain.OrderPending}
	require.NoError(t, f.orderRepo.Create(context.Background(), o))

	_, err := f.status.AssignDeliveryPerson(context.Background(), o.ID.Hex(), domain.DeliveryPerson{ID: "d-1"}, "staff-1")
	require.ErrorIs(t, err, ErrNotDeliveryOrder)
}

func TestAssignDeliveryPersonRejectsTerminal(t *testing.T) {
	f := newFixture()
	o := &domain.Order{CustomerID: customerID, OrderType: domain.OrderTypeDelivery, Status: domain.OrderDelivered}
	require.NoError(t, f.orderRepo.Create(context.Background(), o))

	_, err := f.status.AssignDeliveryPerson(context.Background(), o.ID.Hex(), domain.DeliveryPerson{ID: "d-1"}, "staff-1")
	require.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestLateCompletedEventDoesNotReopenTracking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := &domain.Order{
		CustomerID:     customerID,
		OrderType:      domain.OrderTypeDelivery,
		Status:         domain.OrderDelivered,
		DeliveryPerson: &domain.DeliveryPerson{ID: "d-1", Name: "Sipho"},
	}
	require.NoError(t, f.orderRepo.Create(ctx, o))

	err := f.status.ProcessStatusEvent(ctx, domain.OrderStatusEvent{
		EventType:  domain.EventOrderStatusChanged,
		OrderID:    o.ID.Hex(),
		CustomerID: customerID,
		OldStatus:  domain.OrderPreparing,
		NewStatus:  domain.OrderCompleted,
	})
	require.NoError(t, err)

	assert.Zero(t, f.trackingRepo.activeCount(o.ID.Hex()))
	assert.Empty(t, f.dispatcher.sent, "stale events do not notify")
}

func TestLateEventStopsTrackingOfFinishedOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := &domain.Order{
		CustomerID:     customerID,
		OrderType:      domain.OrderTypeDelivery,
		Status:         domain.OrderCancelled,
		DeliveryPerson: &domain.DeliveryPerson{ID: "d-1"},
	}
	require.NoError(t, f.orderRepo.Create(ctx, o))
	require.NoError(t, f.trackingRepo.Create(ctx, &domain.TrackingSession{ID: "trk-1", OrderID: o.ID.Hex(), IsActive: true}))

	err := f.status.ProcessStatusEvent(ctx, domain.OrderStatusEvent{
		EventType: domain.EventOrderStatusChanged,
		OrderID:   o.ID.Hex(),
		NewStatus: domain.OrderCompleted,
	})
	require.NoError(t, err)

	assert.Zero(t, f.trackingRepo.activeCount(o.ID.Hex()))
}
