package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

type CustomerDetails struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type DeliveryPerson struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
	VehicleID string `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
}

type OrderLine struct {
	CartLine  `bson:",inline"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	LineTotal float64 `bson:"line_total" json:"line_total"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID        string             `bson:"customer_id" json:"customer_id"`
	Customer          CustomerDetails    `bson:"customer" json:"customer"`
	Items             []OrderLine        `bson:"items" json:"items"`
	BaseTotal         float64            `bson:"base_total" json:"base_total"`
	DeliveryFee       float64            `bson:"delivery_fee" json:"delivery_fee"`
	LoyaltyDiscount   float64            `bson:"loyalty_discount" json:"loyalty_discount"`
	LoyaltyPointsUsed int                `bson:"loyalty_points_used" json:"loyalty_points_used"`
	Total             float64            `bson:"total" json:"total"`
	OrderType         OrderType          `bson:"order_type" json:"order_type"`
	Status            OrderStatus        `bson:"status" json:"status"`
	Date              string             `bson:"date" json:"date"`
	Address           string             `bson:"address" json:"address"`
	City              string             `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode        string             `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	Location          *Location          `bson:"location,omitempty" json:"location,omitempty"`
	PaymentMethod     string             `bson:"payment_method" json:"payment_method"`
	PickupTime        string             `bson:"pickup_time,omitempty" json:"pickup_time,omitempty"`
	DeliveryPerson    *DeliveryPerson    `bson:"delivery_person,omitempty" json:"delivery_person,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
