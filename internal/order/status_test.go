package order

import (
	"testing"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	allowed := [][2]domain.OrderStatus{
		{domain.OrderPending, domain.OrderPreparing},
		{domain.OrderPreparing, domain.OrderCompleted},
		{domain.OrderPreparing, domain.OrderReady},
		{domain.OrderReady, domain.OrderDelivered},
		{domain.OrderCompleted, domain.OrderDelivered},
		{domain.OrderPending, domain.OrderCancelled},
		{domain.OrderCompleted, domain.OrderCancelled},
		{domain.OrderPreparing, domain.OrderPreparing},
	}
	for _, tr := range allowed {
		assert.NoError(t, CheckTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]domain.OrderStatus{
		{domain.OrderPending, domain.OrderDelivered},
		{domain.OrderDelivered, domain.OrderPending},
		{domain.OrderCancelled, domain.OrderPreparing},
		{domain.OrderDelivered, domain.OrderCancelled},
		{domain.OrderPending, "shipped"},
	}
	for _, tr := range rejected {
		assert.ErrorIs(t, CheckTransition(tr[0], tr[1]), ErrInvalidTransition, "%s -> %s", tr[0], tr[1])
	}
}

func TestEffectsFor(t *testing.T) {
	driver := &domain.DeliveryPerson{ID: "d1", Name: "Sipho"}

	withDriver := &domain.Order{OrderType: domain.OrderTypeDelivery, DeliveryPerson: driver}
	e := EffectsFor(withDriver, domain.OrderCompleted)
	assert.True(t, e.StartTracking)
	assert.Equal(t, MessageOutForDelivery, e.MessageKey)

	noDriver := &domain.Order{OrderType: domain.OrderTypeDelivery}
	e = EffectsFor(noDriver, domain.OrderCompleted)
	assert.False(t, e.StartTracking)
	assert.Equal(t, "completed", e.MessageKey)

	assert.True(t, EffectsFor(withDriver, domain.OrderDelivered).StopTracking)
	assert.True(t, EffectsFor(withDriver, domain.OrderCancelled).StopTracking)
	assert.Equal(t, Effects{MessageKey: "preparing"}, EffectsFor(withDriver, domain.OrderPreparing))
}

func TestEffectsForDriverAssignment(t *testing.T) {
	completed := &domain.Order{OrderType: domain.OrderTypeDelivery, Status: domain.OrderCompleted}
	assert.True(t, EffectsForDriverAssignment(completed).StartTracking)

	preparing := &domain.Order{OrderType: domain.OrderTypeDelivery, Status: domain.OrderPreparing}
	assert.False(t, EffectsForDriverAssignment(preparing).StartTracking)
}

func TestEveryStatusHasAMessage(t *testing.T) {
	keys := []string{"pending", "preparing", "ready", "out_for_delivery", "delivered", "completed", "cancelled"}
	for _, k := range keys {
		m, ok := MessageFor(k)
		assert.True(t, ok, k)
		assert.NotEmpty(t, m.Title, k)
	}

	_, ok := MessageFor("shipped")
	assert.False(t, ok)
}
