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

type TrackingRepository struct {
	collection *mongo.Collection
}

func NewTrackingRepository(db *mongo.Database) *TrackingRepository {
	return &TrackingRepository{
		collection: db.Collection(collectionTrackingSessions),
	}
}

func (r *TrackingRepository) Create(ctx context.Context, session *domain.TrackingSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return wrapWriteError("create tracking session", err)
	}

	return nil
}

func (r *TrackingRepository) GetActiveByOrderID(ctx context.Context, orderID string) (*domain.TrackingSession, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID, "is_active": true})
}

func (r *TrackingRepository) GetLatestByOrderID(ctx context.Context, orderID string) (*domain.TrackingSession, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID})
}

func (r *TrackingRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrackingSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	var session domain.TrackingSession
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("tracking session")
		}
		return nil, fmt.Errorf("failed to get tracking session: %w", err)
	}

	return &session, nil
}

func (r *TrackingRepository) StopByOrderID(ctx context.Context, orderID string, at time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"is_active":  false,
			"stopped_at": at,
			"updated_at": at,
		},
	}

	result, err := r.collection.UpdateMany(ctx, bson.M{"order_id": orderID, "is_active": true}, update)
	if err != nil {
		return 0, fmt.Errorf("failed to stop tracking sessions: %w", err)
	}

	return int(result.ModifiedCount), nil
}

func (r *TrackingRepository) UpdateDriverLocation(ctx context.Context, id string, loc domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"driver_location": loc,
			"updated_at":      time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "is_active": true}, update)
	if err != nil {
		return fmt.Errorf("failed to update driver location: %w", err)
	}

	if result.MatchedCount == 0 {
		return notFound("active tracking session")
	}

	return nil
}
