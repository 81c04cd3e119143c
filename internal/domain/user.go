package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PushToken struct {
	Token    string `bson:"token" json:"token"`
	Platform string `bson:"platform" json:"platform"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Role         string             `bson:"role" json:"role"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	PushTokens   []PushToken        `bson:"push_tokens,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Label      string             `bson:"label" json:"label"`
	Line       string             `bson:"line" json:"line"`
	City       string             `bson:"city" json:"city"`
	PostalCode string             `bson:"postal_code" json:"postal_code"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

type PaymentMethod struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Label     string             `bson:"label" json:"label"`
	Kind      string             `bson:"kind" json:"kind"`
	Last4     string             `bson:"last4,omitempty" json:"last4,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
