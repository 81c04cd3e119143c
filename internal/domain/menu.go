package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryBreakfast    = "breakfast"
	CategoryPastries     = "pastries"
	CategoryHotBeverages = "hot beverages"
	CategoryColdDrinks   = "cold drinks"
)

type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Allergens   []string           `bson:"allergens,omitempty" json:"allergens,omitempty"`
	Available   bool               `bson:"available" json:"available"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// MenuItemPatch carries the fields of a partial menu item update. Nil fields
// are left untouched.
type MenuItemPatch struct {
	Title       *string   `json:"title,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Allergens   *[]string `json:"allergens,omitempty"`
	Available   *bool     `json:"available,omitempty"`
}
