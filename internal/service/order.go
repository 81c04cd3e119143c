package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/loyalty"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type PlaceOrderResult struct {
	Order    *domain.Order `json:"order"`
	Warnings []string      `json:"warnings,omitempty"`
}

type OrderService struct {
	orderRepo repo.OrderRepository
	carts     *CartService
	loyalty   *LoyaltyService
	status    *OrderStatusService
	builder   *order.Builder
	tx        repo.Transactor
	now       func() time.Time
	logger    *zap.SugaredLogger
}

func NewOrderService(
	orderRepo repo.OrderRepository,
	carts *CartService,
	loyaltySvc *LoyaltyService,
	status *OrderStatusService,
	builder *order.Builder,
	tx repo.Transactor,
	logger *zap.SugaredLogger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		carts:     carts,
		loyalty:   loyaltySvc,
		status:    status,
		builder:   builder,
		tx:        tx,
		now:       time.Now,
		logger:    logger,
	}
}

// PickupSlots lists today's remaining pickup times on the shop's clock.
func (s *OrderService) PickupSlots() []string {
	return s.builder.PickupSlots(s.now())
}

// PlaceOrder turns the customer's cart into a pending order. Points spent on
// the discount are deducted in the same transaction that stores the order.
func (s *OrderService) PlaceOrder(ctx context.Context, in order.CheckoutInput) (*PlaceOrderResult, error) {
	if in.CustomerID == "" {
		return nil, order.ErrUnauthenticated
	}

	snapshot := s.carts.Get(ctx, in.CustomerID)

	o, err := s.builder.Build(in, snapshot, s.now())
	if err != nil {
		return nil, err
	}
	o.ID = primitive.NewObjectID()
	o.LoyaltyPointsUsed = loyalty.PointsForDiscount(o.LoyaltyDiscount)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.loyalty.RedeemPoints(ctx, o.CustomerID, o.ID.Hex(), o.LoyaltyPointsUsed); err != nil {
			return err
		}
		return s.orderRepo.Create(ctx, o)
	})
	if errors.Is(err, loyalty.ErrInsufficientPoints) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Infow("order placed",
		"order_id", o.ID.Hex(),
		"customer_id", o.CustomerID,
		"order_type", o.OrderType,
		"total", o.Total,
		"points_used", o.LoyaltyPointsUsed,
	)

	result := &PlaceOrderResult{Order: o}

	if err := s.loyalty.EnqueueEarn(ctx, o.CustomerID, o.ID.Hex(), o.Total); err != nil {
		s.logger.Warnw("failed to queue loyalty earn, crediting inline", "order_id", o.ID.Hex(), "error", err)
		if _, err := s.loyalty.EarnPoints(ctx, o.CustomerID, o.ID.Hex(), o.Total); err != nil {
			s.logger.Errorw("failed to credit loyalty points", "order_id", o.ID.Hex(), "error", err)
			result.Warnings = append(result.Warnings, "loyalty points could not be credited for this order")
		}
	}

	s.carts.Clear(ctx, o.CustomerID)

	s.status.Publish(ctx, domain.OrderStatusEvent{
		EventType:  domain.EventOrderPlaced,
		OrderID:    o.ID.Hex(),
		CustomerID: o.CustomerID,
		NewStatus:  o.Status,
		ChangedBy:  o.CustomerID,
		Timestamp:  o.CreatedAt,
	})

	return result, nil
}

// GetOrder returns the order if caller owns it or is staff.
func (s *OrderService) GetOrder(ctx context.Context, orderID string, caller auth.Identity) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidID
	}

	o, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if o.CustomerID != caller.UserID && !caller.Role.AtLeast(auth.RoleWaiter) {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListOpen is the staff queue of orders that still need work.
func (s *OrderService) ListOpen(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByStatus(ctx, []domain.OrderStatus{
		domain.OrderPending,
		domain.OrderPreparing,
		domain.OrderReady,
		domain.OrderCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) WatchOrder(ctx context.Context, orderID string, caller auth.Identity) (<-chan domain.Order, error) {
	if _, err := s.GetOrder(ctx, orderID, caller); err != nil {
		return nil, err
	}

	return s.orderRepo.Watch(ctx, orderID, "")
}

func (s *OrderService) WatchCustomerOrders(ctx context.Context, customerID string) (<-chan domain.Order, error) {
	return s.orderRepo.Watch(ctx, "", customerID)
}
