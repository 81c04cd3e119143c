// Package order validates checkouts, builds orders from carts and owns the
// order status rules.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/pricing"
	"github.com/shopspring/decimal"
)

var (
	ErrUnauthenticated = errors.New("customer must be signed in")
	ErrEmptyCart       = errors.New("cart is empty")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type CheckoutInput struct {
	CustomerID      string
	Customer        domain.CustomerDetails
	OrderType       domain.OrderType
	Address         string
	City            string
	PostalCode      string
	Location        *domain.Location
	PaymentMethod   string
	PickupTime      string
	LoyaltyDiscount float64
}

type Totals struct {
	BaseTotal       float64
	DeliveryFee     float64
	LoyaltyDiscount float64
	Total           float64
}

type Config struct {
	DeliveryFee float64
	ShopAddress string
	// Zone is the shop's time zone. Pickup slots follow its wall clock.
	Zone *time.Location
}

type Builder struct {
	deliveryFee decimal.Decimal
	shopAddress string
	zone        *time.Location
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{
		deliveryFee: decimal.NewFromFloat(cfg.DeliveryFee),
		shopAddress: cfg.ShopAddress,
		zone:        cfg.Zone,
	}
}

// PickupSlots lists the slots still offered at now, read on the shop's clock.
func (b *Builder) PickupSlots(now time.Time) []string {
	return PickupSlots(InZone(now, b.zone))
}

// Build validates the checkout and returns a pending order. Validation stops
// at the first failing rule.
func (b *Builder) Build(in CheckoutInput, cart domain.Cart, now time.Time) (*domain.Order, error) {
	if err := b.Validate(in, cart, now); err != nil {
		return nil, err
	}

	cartTotal := pricing.CartTotal(cart.Items)
	totals := b.Totals(cartTotal, in.OrderType, in.LoyaltyDiscount)

	items := make([]domain.OrderLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, domain.OrderLine{
			CartLine:  line,
			UnitPrice: pricing.UnitPrice(line.Price, line.Category, line.Customizations),
			LineTotal: pricing.LineTotal(line),
		})
	}

	o := &domain.Order{
		CustomerID:      in.CustomerID,
		Customer:        trimCustomer(in.Customer),
		Items:           items,
		BaseTotal:       totals.BaseTotal,
		DeliveryFee:     totals.DeliveryFee,
		LoyaltyDiscount: totals.LoyaltyDiscount,
		Total:           totals.Total,
		OrderType:       in.OrderType,
		Status:          domain.OrderPending,
		Date:            now.Format(time.RFC3339),
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	switch in.OrderType {
	case domain.OrderTypeDelivery:
		o.Address = strings.TrimSpace(in.Address)
		o.City = strings.TrimSpace(in.City)
		o.PostalCode = strings.TrimSpace(in.PostalCode)
		o.Location = in.Location
	case domain.OrderTypePickup:
		o.Address = b.shopAddress
		o.PickupTime = in.PickupTime
	}

	return o, nil
}

func (b *Builder) Validate(in CheckoutInput, cart domain.Cart, now time.Time) error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return ErrUnauthenticated
	}

	required := []struct {
		field, value string
	}{
		{"name", in.Customer.Name},
		{"email", in.Customer.Email},
		{"phone", in.Customer.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	switch in.OrderType {
	case domain.OrderTypeDelivery:
		address := []struct {
			field, value string
		}{
			{"address", in.Address},
			{"city", in.City},
			{"postal_code", in.PostalCode},
		}
		for _, r := range address {
			if strings.TrimSpace(r.value) == "" {
				return &ValidationError{Field: r.field, Message: "is required for delivery"}
			}
		}
	case domain.OrderTypePickup:
		if strings.TrimSpace(in.PickupTime) == "" {
			return &ValidationError{Field: "pickup_time", Message: "is required for pickup"}
		}
		if !IsPickupSlotAvailable(in.PickupTime, InZone(now, b.zone)) {
			return &ValidationError{Field: "pickup_time", Message: "is not an available pickup slot"}
		}
	default:
		return &ValidationError{Field: "order_type", Message: "must be delivery or pickup"}
	}

	if len(cart.Items) == 0 {
		return ErrEmptyCart
	}

	return nil
}

// Totals applies the delivery fee and clamps the loyalty discount to the
// base total so the final total is never negative.
func (b *Builder) Totals(cartTotal float64, orderType domain.OrderType, requestedDiscount float64) Totals {
	fee := decimal.Zero
	if orderType == domain.OrderTypeDelivery {
		fee = b.deliveryFee
	}

	base := decimal.NewFromFloat(cartTotal).Add(fee)

	discount := decimal.NewFromFloat(requestedDiscount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(base) {
		discount = base
	}

	total := base.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		BaseTotal:       base.Round(2).InexactFloat64(),
		DeliveryFee:     fee.Round(2).InexactFloat64(),
		LoyaltyDiscount: discount.Round(2).InexactFloat64(),
		Total:           total.Round(2).InexactFloat64(),
	}
}

func trimCustomer(c domain.CustomerDetails) domain.CustomerDetails {
	return domain.CustomerDetails{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}
