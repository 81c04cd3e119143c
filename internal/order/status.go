package order

import (
	"errors"
	"fmt"

	"github.com/Beka01247/brewline/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderPending:   {domain.OrderPreparing, domain.OrderCancelled},
	domain.OrderPreparing: {domain.OrderReady, domain.OrderCompleted, domain.OrderCancelled},
	domain.OrderReady:     {domain.OrderCompleted, domain.OrderDelivered, domain.OrderCancelled},
	domain.OrderCompleted: {domain.OrderDelivered, domain.OrderCancelled},
}

func IsKnownStatus(s domain.OrderStatus) bool {
	switch s {
	case domain.OrderPending, domain.OrderPreparing, domain.OrderReady,
		domain.OrderCompleted, domain.OrderDelivered, domain.OrderCancelled:
		return true
	}
	return false
}

func IsTerminal(s domain.OrderStatus) bool {
	return s == domain.OrderDelivered || s == domain.OrderCancelled
}

// CheckTransition returns nil when an order may move from one status to the
// other. Moving to the current status is allowed and changes nothing.
func CheckTransition(from, to domain.OrderStatus) error {
	if !IsKnownStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}

	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Effects lists what has to happen after a status change.
type Effects struct {
	StartTracking bool
	StopTracking  bool
	MessageKey    string
}

// EffectsFor derives the side effects of o entering status to. Tracking
// starts only for delivery orders that already have a delivery person.
func EffectsFor(o *domain.Order, to domain.OrderStatus) Effects {
	driverAssigned := o.DeliveryPerson != nil
	e := Effects{MessageKey: string(to)}

	switch to {
	case domain.OrderCompleted:
		if o.OrderType == domain.OrderTypeDelivery && driverAssigned {
			e.StartTracking = true
			e.MessageKey = MessageOutForDelivery
		}
	case domain.OrderDelivered, domain.OrderCancelled:
		e.StopTracking = true
	}

	return e
}

// EffectsForDriverAssignment covers a delivery person being set on an order
// that may already be on its way.
func EffectsForDriverAssignment(o *domain.Order) Effects {
	if o.Status == domain.OrderCompleted && o.OrderType == domain.OrderTypeDelivery {
		return Effects{StartTracking: true, MessageKey: MessageOutForDelivery}
	}

	return Effects{}
}
