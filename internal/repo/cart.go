package repo

import (
	"context"

	"github.com/Beka01247/brewline/internal/domain"
)

type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}
