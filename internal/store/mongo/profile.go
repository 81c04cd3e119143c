package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ownedCollection stores documents that belong to a single user.
type ownedCollection struct {
	collection *mongo.Collection
	name       string
}

func (c ownedCollection) list(ctx context.Context, userID string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := c.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", c.name, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.name, err)
	}

	return nil
}

func (c ownedCollection) insert(ctx context.Context, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create %s: %w", c.name, err)
	}

	return nil
}

func (c ownedCollection) delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.name, err)
	}

	if result.DeletedCount == 0 {
		return notFound(c.name)
	}

	return nil
}

type AddressRepository struct {
	ownedCollection
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{ownedCollection{collection: db.Collection(collectionAddresses), name: "address"}}
}

func (r *AddressRepository) List(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses := []domain.Address{}
	if err := r.list(ctx, userID, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) error {
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	address.CreatedAt = time.Now()
	return r.insert(ctx, address)
}

func (r *AddressRepository) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	return r.delete(ctx, userID, id)
}

type PaymentMethodRepository struct {
	ownedCollection
}

func NewPaymentMethodRepository(db *mongo.Database) *PaymentMethodRepository {
	return &PaymentMethodRepository{ownedCollection{collection: db.Collection(collectionPaymentMethods), name: "payment method"}}
}

func (r *PaymentMethodRepository) List(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	methods := []domain.PaymentMethod{}
	if err := r.list(ctx, userID, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *PaymentMethodRepository) Create(ctx context.Context, method *domain.PaymentMethod) error {
	if method.ID.IsZero() {
		method.ID = primitive.NewObjectID()
	}
	method.CreatedAt = time.Now()
	return r.insert(ctx, method)
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	return r.delete(ctx, userID, id)
}
