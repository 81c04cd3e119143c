package domain

import (
	"slices"
	"time"
)

type Customizations struct {
	Size                string   `bson:"size,omitempty" json:"size,omitempty"`
	Sugar               string   `bson:"sugar,omitempty" json:"sugar,omitempty"`
	Ice                 string   `bson:"ice,omitempty" json:"ice,omitempty"`
	Milk                string   `bson:"milk,omitempty" json:"milk,omitempty"`
	Addons              []string `bson:"addons,omitempty" json:"addons,omitempty"`
	SpecialInstructions string   `bson:"special_instructions,omitempty" json:"special_instructions,omitempty"`
}

// Equal treats nil and the zero value as the same selection and ignores
// the order add-ons were picked in.
func (c *Customizations) Equal(other *Customizations) bool {
	a, b := c.orZero(), other.orZero()

	return a.Size == b.Size &&
		a.Sugar == b.Sugar &&
		a.Ice == b.Ice &&
		a.Milk == b.Milk &&
		a.SpecialInstructions == b.SpecialInstructions &&
		slices.Equal(sortedAddons(a.Addons), sortedAddons(b.Addons))
}

func (c *Customizations) orZero() Customizations {
	if c == nil {
		return Customizations{}
	}
	return *c
}

func sortedAddons(addons []string) []string {
	out := slices.Clone(addons)
	slices.Sort(out)
	return out
}

type CartLine struct {
	CartItemID     string          `bson:"cart_item_id" json:"cart_item_id"`
	MenuItemID     string          `bson:"menu_item_id" json:"menu_item_id"`
	Title          string          `bson:"title" json:"title"`
	Price          float64         `bson:"price" json:"price"`
	Category       string          `bson:"category" json:"category"`
	Image          string          `bson:"image,omitempty" json:"image,omitempty"`
	Quantity       int             `bson:"quantity" json:"quantity"`
	Customizations *Customizations `bson:"customizations,omitempty" json:"customizations,omitempty"`
}

type Cart struct {
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartLine `bson:"items" json:"items"`
	Total     float64    `bson:"total" json:"total"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}
