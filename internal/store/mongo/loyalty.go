package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LoyaltyRepository struct {
	accounts     *mongo.Collection
	transactions *mongo.Collection
}

func NewLoyaltyRepository(db *mongo.Database) *LoyaltyRepository {
	return &LoyaltyRepository{
		accounts:     db.Collection(collectionLoyaltyAccounts),
		transactions: db.Collection(collectionLoyaltyTransactions),
	}
}

func (r *LoyaltyRepository) GetAccount(ctx context.Context, userID string) (*domain.LoyaltyAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var account domain.LoyaltyAccount
	err := r.accounts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&account)
	if err != nil {
		if isNoDocuments(err) {
			return &domain.LoyaltyAccount{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get loyalty account: %w", err)
	}

	return &account, nil
}

func (r *LoyaltyRepository) FindTransaction(ctx context.Context, orderID string, kind domain.LoyaltyKind) (*domain.LoyaltyTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tx domain.LoyaltyTransaction
	err := r.transactions.FindOne(ctx, bson.M{"order_id": orderID, "kind": kind}).Decode(&tx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("loyalty transaction")
		}
		return nil, fmt.Errorf("failed to get loyalty transaction: %w", err)
	}

	return &tx, nil
}

func (r *LoyaltyRepository) RecordTransaction(ctx context.Context, tx *domain.LoyaltyTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	if _, err := r.transactions.InsertOne(ctx, tx); err != nil {
		return wrapWriteError("record loyalty transaction", err)
	}

	return nil
}

func (r *LoyaltyRepository) AddPoints(ctx context.Context, userID string, points int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{
			"available_points": points,
			"lifetime_points":  points,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	_, err := r.accounts.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add loyalty points: %w", err)
	}

	return nil
}

// DeductPoints only succeeds when the balance covers points.
func (r *LoyaltyRepository) DeductPoints(ctx context.Context, userID string, points int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id":          userID,
		"available_points": bson.M{"$gte": points},
	}
	update := bson.M{
		"$inc": bson.M{"available_points": -points},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.accounts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to deduct loyalty points: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("deduct %d points from %s: %w", points, userID, repo.ErrConditionFailed)
	}

	return nil
}
