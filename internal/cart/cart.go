// Package cart holds the shopping cart aggregate and the per-user session
// manager that persists it.
package cart

import (
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/pricing"
	"github.com/google/uuid"
)

// Cart is not safe for concurrent use; the Manager guards it.
type Cart struct {
	userID string
	lines  []domain.CartLine
	total  float64
}

func New(userID string) *Cart {
	return &Cart{userID: userID, lines: []domain.CartLine{}}
}

// FromSnapshot rebuilds a cart from its stored form. The stored total is
// ignored and recomputed.
func FromSnapshot(snapshot domain.Cart) *Cart {
	c := New(snapshot.UserID)
	for _, line := range snapshot.Items {
		if line.Quantity <= 0 {
			continue
		}
		if line.CartItemID == "" {
			line.CartItemID = uuid.NewString()
		}
		c.lines = append(c.lines, line)
	}
	c.recompute()

	return c
}

// AddLine merges into an existing line with the same menu item and
// customizations, otherwise appends a new line. It returns the line id.
func (c *Cart) AddLine(item domain.MenuItem, customizations *domain.Customizations, quantity int) string {
	if quantity < 1 {
		quantity = 1
	}

	menuItemID := item.ID.Hex()
	for i := range c.lines {
		line := &c.lines[i]
		if line.MenuItemID == menuItemID && line.Customizations.Equal(customizations) {
			line.Quantity += quantity
			c.recompute()
			return line.CartItemID
		}
	}

	line := domain.CartLine{
		CartItemID:     uuid.NewString(),
		MenuItemID:     menuItemID,
		Title:          item.Title,
		Price:          item.Price,
		Category:       item.Category,
		Image:          item.Image,
		Quantity:       quantity,
		Customizations: customizations,
	}
	c.lines = append(c.lines, line)
	c.recompute()

	return line.CartItemID
}

// RemoveLine reports whether a line was removed.
func (c *Cart) RemoveLine(cartItemID string) bool {
	for i := range c.lines {
		if c.lines[i].CartItemID == cartItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recompute()
			return true
		}
	}

	return false
}

// SetQuantity removes the line when quantity is not positive.
func (c *Cart) SetQuantity(cartItemID string, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveLine(cartItemID)
	}

	for i := range c.lines {
		if c.lines[i].CartItemID == cartItemID {
			c.lines[i].Quantity = quantity
			c.recompute()
			return true
		}
	}

	return false
}

func (c *Cart) Clear() {
	c.lines = []domain.CartLine{}
	c.total = 0
}

func (c *Cart) Total() float64 {
	return c.total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) recompute() {
	c.total = pricing.CartTotal(c.lines)
}

// Snapshot returns a copy detached from the aggregate.
func (c *Cart) Snapshot() domain.Cart {
	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)

	return domain.Cart{
		UserID: c.userID,
		Items:  lines,
		Total:  c.total,
	}
}
