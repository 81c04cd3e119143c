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

type OrderStatusAuditRepository struct {
	collection *mongo.Collection
}

func NewOrderStatusAuditRepository(db *mongo.Database) *OrderStatusAuditRepository {
	return &OrderStatusAuditRepository{
		collection: db.Collection(collectionOrderStatusAudit),
	}
}

func (r *OrderStatusAuditRepository) Create(ctx context.Context, audit *domain.OrderStatusAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to create order status audit: %w", err)
	}

	return nil
}

func (r *OrderStatusAuditRepository) GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderStatusAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get order status audits: %w", err)
	}
	defer cursor.Close(ctx)

	audits := []domain.OrderStatusAudit{}
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode order status audits: %w", err)
	}

	return audits, nil
}
