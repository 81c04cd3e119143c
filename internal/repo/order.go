package repo

import (
	"context"

	"github.com/Beka01247/brewline/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.OrderStatus) error
	AssignDeliveryPerson(ctx context.Context, id primitive.ObjectID, person domain.DeliveryPerson) error
	// Watch streams the current state of matching orders until ctx is done.
	// An empty orderID with a customerID watches all of that customer's orders.
	Watch(ctx context.Context, orderID, customerID string) (<-chan domain.Order, error)
}

type OrderStatusAuditRepository interface {
	Create(ctx context.Context, audit *domain.OrderStatusAudit) error
	GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderStatusAudit, error)
}
