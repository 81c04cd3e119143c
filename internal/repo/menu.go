package repo

import (
	"context"

	"github.com/Beka01247/brewline/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuRepository interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	UpsertByTitle(ctx context.Context, items []domain.MenuItem) (int, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MenuItem, error)
	List(ctx context.Context, category string) ([]domain.MenuItem, error)
	Update(ctx context.Context, id primitive.ObjectID, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
