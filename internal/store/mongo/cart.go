package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{
		collection: db.Collection(collectionCarts),
	}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cart domain.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("cart")
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// Save replaces the user's stored cart.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
