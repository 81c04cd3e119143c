package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collectionMenuItems           = "menu_items"
	collectionMenuImportTasks     = "menu_import_tasks"
	collectionCarts               = "carts"
	collectionOrders              = "orders"
	collectionOrderStatusAudit    = "order_status_audit"
	collectionLoyaltyAccounts     = "loyalty_accounts"
	collectionLoyaltyTransactions = "loyalty_transactions"
	collectionTrackingSessions    = "tracking_sessions"
	collectionUsers               = "users"
	collectionAddresses           = "addresses"
	collectionPaymentMethods      = "payment_methods"
)

type Storage struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func New(cfg Config) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(cfg.Database)

	return &Storage{
		client:   client,
		database: database,
		config:   cfg,
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

func (s *Storage) Client() *mongo.Client {
	return s.client
}

func (s *Storage) StartSession() (mongo.Session, error) {
	return s.client.StartSession()
}

// WithTransaction runs fn in a session transaction. Repository calls made with
// the ctx handed to fn are part of the transaction.
func (s *Storage) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) CreateIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collectionMenuItems: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "title", Value: 1}}},
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionMenuImportTasks: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		collectionCarts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionOrders: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collectionOrderStatusAudit: {
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
		collectionLoyaltyAccounts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionLoyaltyTransactions: {
			{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "kind", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionTrackingSessions: {
			{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "started_at", Value: -1}}},
			// at most one active session per order
			{
				Keys: bson.D{{Key: "order_id", Value: 1}},
				Options: options.Index().
					SetName("order_id_active_unique").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"is_active": true}),
			},
		},
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionAddresses: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionPaymentMethods: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := s.database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	return nil
}
