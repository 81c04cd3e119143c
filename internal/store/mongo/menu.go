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

type MenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		collection: db.Collection(collectionMenuItems),
	}
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return wrapWriteError("create menu item", err)
	}

	return nil
}

// UpsertByTitle inserts new items and refreshes existing ones matched by
// title. It returns the number of items written.
func (r *MenuRepository) UpsertByTitle(ctx context.Context, items []domain.MenuItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"title": item.Title}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"price":       item.Price,
					"category":    item.Category,
					"description": item.Description,
					"image":       item.Image,
					"allergens":   item.Allergens,
					"available":   item.Available,
					"updated_at":  now,
				},
				"$setOnInsert": bson.M{"created_at": now},
			}).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert menu items: %w", err)
	}

	return int(result.UpsertedCount + result.ModifiedCount), nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item domain.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("menu item")
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return &item, nil
}

// List returns the menu ordered by category and title. An empty category
// lists everything.
func (r *MenuRepository) List(ctx context.Context, category string) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "title", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []domain.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}

	return items, nil
}

func (r *MenuRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Allergens != nil {
		set["allergens"] = *patch.Allergens
	}
	if patch.Available != nil {
		set["available"] = *patch.Available
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.MenuItem
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("menu item")
		}
		return nil, wrapWriteError("update menu item", err)
	}

	return &item, nil
}

func (r *MenuRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if result.DeletedCount == 0 {
		return notFound("menu item")
	}

	return nil
}
