package order

import (
	"errors"
	"testing"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder() *Builder {
	return NewBuilder(Config{DeliveryFee: 25, ShopAddress: "12 Bree Street, Cape Town"})
}

func testCart() domain.Cart {
	return domain.Cart{
		UserID: "user-1",
		Items: []domain.CartLine{
			{
				CartItemID:     "line-1",
				MenuItemID:     "cappuccino",
				Title:          "Cappuccino",
				Price:          38,
				Category:       domain.CategoryHotBeverages,
				Quantity:       1,
				Customizations: &domain.Customizations{Size: "Large"},
			},
		},
	}
}

func deliveryInput() CheckoutInput {
	return CheckoutInput{
		CustomerID:    "user-1",
		Customer:      domain.CustomerDetails{Name: "Thandi", Email: "thandi@example.com", Phone: "0821234567"},
		OrderType:     domain.OrderTypeDelivery,
		Address:       "3 Long Street",
		City:          "Cape Town",
		PostalCode:    "8001",
		PaymentMethod: "card",
	}
}

func TestBuildDeliveryOrder(t *testing.T) {
	o, err := testBuilder().Build(deliveryInput(), testCart(), at(10, 0))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, 73.0, o.BaseTotal)
	assert.Equal(t, 25.0, o.DeliveryFee)
	assert.Equal(t, 73.0, o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 48.0, o.Items[0].UnitPrice)
	assert.Equal(t, "Cape Town", o.City)
}

func TestBuildPickupOrderUsesShopAddress(t *testing.T) {
	in := deliveryInput()
	in.OrderType = domain.OrderTypePickup
	in.Address = ""
	in.PickupTime = "10:30"

	o, err := testBuilder().Build(in, testCart(), at(10, 0))
	require.NoError(t, err)

	assert.Equal(t, "12 Bree Street, Cape Town", o.Address)
	assert.Equal(t, 0.0, o.DeliveryFee)
	assert.Equal(t, 48.0, o.Total)
	assert.Equal(t, "10:30", o.PickupTime)
}

func TestValidateFailsFast(t *testing.T) {
	var verr *ValidationError

	noCity := deliveryInput()
	noCity.City = " "
	_, err := testBuilder().Build(noCity, testCart(), at(10, 0))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "city", verr.Field)

	anonymous := deliveryInput()
	anonymous.CustomerID = ""
	anonymous.Customer.Name = ""
	_, err = testBuilder().Build(anonymous, domain.Cart{}, at(10, 0))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	noName := deliveryInput()
	noName.Customer.Name = ""
	noName.City = ""
	_, err = testBuilder().Build(noName, testCart(), at(10, 0))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)

	_, err = testBuilder().Build(deliveryInput(), domain.Cart{}, at(10, 0))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestValidatePickupTime(t *testing.T) {
	var verr *ValidationError

	in := deliveryInput()
	in.OrderType = domain.OrderTypePickup

	_, err := testBuilder().Build(in, testCart(), at(10, 0))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "pickup_time", verr.Field)

	in.PickupTime = "09:30"
	_, err = testBuilder().Build(in, testCart(), at(10, 0))
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "not an available")
}

func TestTotalsInvariant(t *testing.T) {
	b := testBuilder()

	tests := []struct {
		name      string
		cartTotal float64
		orderType domain.OrderType
		discount  float64
		want      Totals
	}{
		{"no discount", 48, domain.OrderTypePickup, 0, Totals{48, 0, 0, 48}},
		{"delivery fee", 48, domain.OrderTypeDelivery, 0, Totals{73, 25, 0, 73}},
		{"partial discount", 48, domain.OrderTypeDelivery, 4.8, Totals{73, 25, 4.8, 68.2}},
		{"discount clamped to base", 48, domain.OrderTypePickup, 500, Totals{48, 0, 48, 0}},
		{"negative discount ignored", 48, domain.OrderTypePickup, -5, Totals{48, 0, 0, 48}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Totals(tt.cartTotal, tt.orderType, tt.discount)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Total, 0.0)
			assert.InDelta(t, got.BaseTotal-got.LoyaltyDiscount, got.Total, 1e-9)
		})
	}
}
