package repo

import (
	"context"

	"github.com/Beka01247/brewline/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	AddPushToken(ctx context.Context, id primitive.ObjectID, token domain.PushToken) error
}

type AddressRepository interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
}

type PaymentMethodRepository interface {
	List(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	Create(ctx context.Context, method *domain.PaymentMethod) error
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
}
