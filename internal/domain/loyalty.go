package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoyaltyAccount struct {
	UserID          string    `bson:"user_id" json:"user_id"`
	AvailablePoints int       `bson:"available_points" json:"available_points"`
	LifetimePoints  int       `bson:"lifetime_points" json:"lifetime_points"`
	DiscountValue   float64   `bson:"-" json:"discount_value"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type LoyaltyKind string

const (
	LoyaltyEarn   LoyaltyKind = "earn"
	LoyaltyRedeem LoyaltyKind = "redeem"
)

type LoyaltyTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	OrderID   string             `bson:"order_id" json:"order_id"`
	Kind      LoyaltyKind        `bson:"kind" json:"kind"`
	Points    int                `bson:"points" json:"points"`
	Amount    float64            `bson:"amount" json:"amount"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
