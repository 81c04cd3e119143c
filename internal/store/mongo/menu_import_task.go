package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MenuImportTaskRepository struct {
	collection *mongo.Collection
}

func NewMenuImportTaskRepository(db *mongo.Database) *MenuImportTaskRepository {
	return &MenuImportTaskRepository{
		collection: db.Collection(collectionMenuImportTasks),
	}
}

func (r *MenuImportTaskRepository) Create(ctx context.Context, task *domain.MenuImportTask) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create menu import task: %w", err)
	}

	return nil
}

func (r *MenuImportTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MenuImportTask, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var task domain.MenuImportTask
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("menu import task")
		}
		return nil, fmt.Errorf("failed to get menu import task: %w", err)
	}

	return &task, nil
}

func (r *MenuImportTaskRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ImportTaskStatus, errorMsg string) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if errorMsg != "" {
		set["error_message"] = errorMsg
	}

	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *MenuImportTaskRepository) Complete(ctx context.Context, id primitive.ObjectID, imported int) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{
			"status":         domain.StatusCompleted,
			"imported_count": imported,
			"updated_at":     time.Now(),
		},
	})
}

func (r *MenuImportTaskRepository) IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"$inc": bson.M{"retry_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
}

func (r *MenuImportTaskRepository) update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update menu import task: %w", err)
	}

	if result.MatchedCount == 0 {
		return notFound("menu import task")
	}

	return nil
}
