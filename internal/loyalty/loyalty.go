// Package loyalty converts between spend, points and discount value.
package loyalty

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInsufficientPoints = errors.New("insufficient loyalty points")

var (
	// SpendPerPoint is the amount that earns one point.
	SpendPerPoint = decimal.NewFromInt(10)
	// PointValue is the discount one point is worth.
	PointValue = decimal.RequireFromString("0.10")
)

// PointsForSpend returns the points earned for an order total.
func PointsForSpend(amount float64) int {
	if amount <= 0 {
		return 0
	}

	return int(decimal.NewFromFloat(amount).Div(SpendPerPoint).Floor().IntPart())
}

func DiscountForPoints(points int) float64 {
	if points <= 0 {
		return 0
	}

	return decimal.NewFromInt(int64(points)).Mul(PointValue).Round(2).InexactFloat64()
}

// PointsForDiscount is the inverse of DiscountForPoints, rounding up so a
// discount is never worth more than the points it costs.
func PointsForDiscount(discount float64) int {
	if discount <= 0 {
		return 0
	}

	return int(decimal.NewFromFloat(discount).Div(PointValue).Ceil().IntPart())
}
