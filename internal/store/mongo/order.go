package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type OrderRepository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func NewOrderRepository(db *mongo.Database, logger *zap.SugaredLogger) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(collectionOrders),
		logger:     logger,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return wrapWriteError("create order", err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("order")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// ListByCustomer returns the customer's orders newest first. When the server
// refuses the sort (missing index, memory limit) the orders are fetched
// unsorted and sorted here.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"customer_id": customerID}

	orders, err := r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err == nil {
		return orders, nil
	}
	if !isSortError(err) {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	r.logger.Warnw("ordered order query failed, sorting client-side", "customer_id", customerID, "error", err)

	orders, err = r.find(ctx, filter, options.Find())
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	sortNewestFirst(orders)

	return orders, nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	orders, err := r.find(ctx,
		bson.M{"status": bson.M{"$in": statuses}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by status: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Order, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus moves the order from one status to another. It returns
// ErrConditionFailed when the order is no longer in the from status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "status": from}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s is no longer %s: %w", id.Hex(), from, repo.ErrConditionFailed)
	}

	return nil
}

func (r *OrderRepository) AssignDeliveryPerson(ctx context.Context, id primitive.ObjectID, person domain.DeliveryPerson) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"delivery_person": person,
			"updated_at":      time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to assign delivery person: %w", err)
	}

	if result.MatchedCount == 0 {
		return notFound("order")
	}

	return nil
}

// Watch emits the current state of the matching orders, then every change,
// until ctx is cancelled. The channel is closed when the stream ends.
func (r *OrderRepository) Watch(ctx context.Context, orderID, customerID string) (<-chan domain.Order, error) {
	filter := bson.M{}
	match := bson.M{"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}}}

	if orderID != "" {
		id, err := primitive.ObjectIDFromHex(orderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order id: %w", err)
		}
		filter["_id"] = id
		match["documentKey._id"] = id
	}
	if customerID != "" {
		filter["customer_id"] = customerID
		match["fullDocument.customer_id"] = customerID
	}

	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := r.collection.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open order change stream: %w", err)
	}

	initial, err := r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		stream.Close(context.Background())
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	out := make(chan domain.Order, 16)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for _, o := range initial {
			select {
			case out <- o:
			case <-ctx.Done():
				return
			}
		}

		for stream.Next(ctx) {
			var event struct {
				FullDocument bson.M `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				r.logger.Errorw("failed to decode order change", "error", err)
				continue
			}
			if event.FullDocument == nil {
				continue
			}

			var o domain.Order
			if err := DecodeDocument(event.FullDocument, &o, false); err != nil {
				r.logger.Errorw("failed to map order change", "error", err)
				continue
			}

			select {
			case out <- o:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Errorw("order change stream stopped", "error", err)
		}
	}()

	return out, nil
}

func isSortError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 96 OperationFailed (sort memory limit), 292 QueryExceededMemoryLimitNoDiskUseAllowed
		return cmdErr.Code == 96 || cmdErr.Code == 292
	}
	return false
}

func sortNewestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
