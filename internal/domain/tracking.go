package domain

import "time"

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

type TrackingSession struct {
	ID               string     `bson:"_id" json:"id"`
	OrderID          string     `bson:"order_id" json:"order_id"`
	DriverLocation   Location   `bson:"driver_location" json:"driver_location"`
	ShopLocation     Location   `bson:"shop_location" json:"shop_location"`
	CustomerLocation Location   `bson:"customer_location" json:"customer_location"`
	IsActive         bool       `bson:"is_active" json:"is_active"`
	StartedAt        time.Time  `bson:"started_at" json:"started_at"`
	StoppedAt        *time.Time `bson:"stopped_at,omitempty" json:"stopped_at,omitempty"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// TrackingView is a session plus the derived distance to the customer.
type TrackingView struct {
	TrackingSession
	RemainingKm float64 `json:"remaining_km"`
	ETAMinutes  int     `json:"eta_minutes"`
}
