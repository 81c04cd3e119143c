package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/notify"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/Beka01247/brewline/internal/queue"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const auditHistoryLimit = 50

type OrderStatusService struct {
	orderRepo  repo.OrderRepository
	auditRepo  repo.OrderStatusAuditRepository
	tracking   *TrackingService
	dispatcher notify.Dispatcher
	broker     queue.Broker
	tx         repo.Transactor
	logger     *zap.SugaredLogger
}

func NewOrderStatusService(
	orderRepo repo.OrderRepository,
	auditRepo repo.OrderStatusAuditRepository,
	tracking *TrackingService,
	dispatcher notify.Dispatcher,
	broker queue.Broker,
	tx repo.Transactor,
	logger *zap.SugaredLogger,
) *OrderStatusService {
	return &OrderStatusService{
		orderRepo:  orderRepo,
		auditRepo:  auditRepo,
		tracking:   tracking,
		dispatcher: dispatcher,
		broker:     broker,
		tx:         tx,
		logger:     logger,
	}
}

// UpdateStatus moves an order to a new status and records the change. Side
// effects run from the published event.
func (s *OrderStatusService) UpdateStatus(ctx context.Context, orderID string, to domain.OrderStatus, reason, changedBy string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidID
	}

	o, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := order.CheckTransition(o.Status, to); err != nil {
		return nil, err
	}
	if o.Status == to {
		return o, nil
	}

	from := o.Status
	now := time.Now()

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.UpdateStatus(ctx, oid, from, to); err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, &domain.OrderStatusAudit{
			OrderID:   orderID,
			EventType: domain.EventOrderStatusChanged,
			OldStatus: from,
			NewStatus: to,
			Reason:    reason,
			ChangedBy: changedBy,
			Timestamp: now,
		})
	})
	if errors.Is(err, repo.ErrConditionFailed) {
		return nil, fmt.Errorf("%w: order %s is no longer %s", order.ErrInvalidTransition, orderID, from)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	o.Status = to
	o.UpdatedAt = now

	s.logger.Infow("order status updated",
		"order_id", orderID,
		"old_status", from,
		"new_status", to,
		"changed_by", changedBy,
	)

	s.Publish(ctx, domain.OrderStatusEvent{
		EventType:        domain.EventOrderStatusChanged,
		OrderID:          orderID,
		CustomerID:       o.CustomerID,
		OldStatus:        from,
		NewStatus:        to,
		Reason:           reason,
		ChangedBy:        changedBy,
		DeliveryAssigned: o.DeliveryPerson != nil,
		Timestamp:        now,
	})

	return o, nil
}

func (s *OrderStatusService) AssignDeliveryPerson(ctx context.Context, orderID string, person domain.DeliveryPerson, changedBy string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidID
	}

	o, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if o.OrderType != domain.OrderTypeDelivery {
		return nil, ErrNotDeliveryOrder
	}
	if order.IsTerminal(o.Status) {
		return nil, fmt.Errorf("%w: order is already %s", order.ErrInvalidTransition, o.Status)
	}

	now := time.Now()

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.AssignDeliveryPerson(ctx, oid, person); err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, &domain.OrderStatusAudit{
			OrderID:   orderID,
			EventType: domain.EventOrderDriverAssigned,
			OldStatus: o.Status,
			NewStatus: o.Status,
			Reason:    "delivery person " + person.Name,
			ChangedBy: changedBy,
			Timestamp: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign delivery person: %w", err)
	}

	o.DeliveryPerson = &person
	o.UpdatedAt = now

	s.logger.Infow("delivery person assigned", "order_id", orderID, "driver_id", person.ID)

	s.Publish(ctx, domain.OrderStatusEvent{
		EventType:        domain.EventOrderDriverAssigned,
		OrderID:          orderID,
		CustomerID:       o.CustomerID,
		OldStatus:        o.Status,
		NewStatus:        o.Status,
		ChangedBy:        changedBy,
		DeliveryAssigned: true,
		Timestamp:        now,
	})

	return o, nil
}

func (s *OrderStatusService) History(ctx context.Context, orderID string) ([]domain.OrderStatusAudit, error) {
	audits, err := s.auditRepo.GetByOrderID(ctx, orderID, auditHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	return audits, nil
}

// Publish queues the event for the status worker. When the broker is down the
// effects are applied inline so tracking and notifications are not lost.
func (s *OrderStatusService) Publish(ctx context.Context, event domain.OrderStatusEvent) {
	messageBytes, err := json.Marshal(event)
	if err == nil {
		err = s.broker.Publish(ctx, queue.QueueOrderStatus, messageBytes)
	}
	if err == nil {
		return
	}

	s.logger.Warnw("failed to publish status event, applying inline", "order_id", event.OrderID, "error", err)

	if err := s.ProcessStatusEvent(ctx, event); err != nil {
		s.logger.Errorw("failed to apply status event", "order_id", event.OrderID, "error", err)
	}
}

// ProcessStatusEvent applies tracking changes and notifies the customer.
// Tracking errors are returned so the event is retried; notification errors
// are only logged.
func (s *OrderStatusService) ProcessStatusEvent(ctx context.Context, event domain.OrderStatusEvent) error {
	oid, err := primitive.ObjectIDFromHex(event.OrderID)
	if err != nil {
		return ErrInvalidID
	}

	o, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	// Retries and the inline fallback can deliver events after later ones.
	// A stale event only reconciles tracking with where the order is now.
	if event.EventType == domain.EventOrderStatusChanged && o.Status != event.NewStatus {
		s.logger.Infow("skipping stale status event", "order_id", event.OrderID,
			"event_status", event.NewStatus, "order_status", o.Status)

		if order.IsTerminal(o.Status) {
			return s.tracking.Stop(ctx, event.OrderID)
		}
		return nil
	}

	var effects order.Effects
	if event.EventType == domain.EventOrderDriverAssigned {
		effects = order.EffectsForDriverAssignment(o)
	} else {
		effects = order.EffectsFor(o, event.NewStatus)
	}

	if effects.StartTracking {
		if _, err := s.tracking.Start(ctx, o); err != nil {
			return err
		}
		if err := s.stopIfFinished(ctx, event.OrderID); err != nil {
			return err
		}
	}
	if effects.StopTracking {
		if err := s.tracking.Stop(ctx, event.OrderID); err != nil {
			return err
		}
	}

	n, ok := notify.Build(o.CustomerID, event.OrderID, event.NewStatus, effects.MessageKey, time.Now())
	if !ok {
		return nil
	}
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		s.logger.Errorw("failed to dispatch notification", "order_id", event.OrderID, "error", err)
	}

	return nil
}

// stopIfFinished closes a session that was started while the order moved on
// to delivered or cancelled.
func (s *OrderStatusService) stopIfFinished(ctx context.Context, orderID string) error {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return ErrInvalidID
	}

	o, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	if order.IsTerminal(o.Status) {
		return s.tracking.Stop(ctx, orderID)
	}
	return nil
}
