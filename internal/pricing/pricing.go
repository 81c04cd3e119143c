// Package pricing computes effective item prices from a base price and the
// customer's customizations.
package pricing

import (
	"regexp"
	"strings"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	SizeLarge   = "Large"
	DefaultMilk = "Regular Milk"
)

// Large items in a category whose name mentions "beverages" pay the beverage
// surcharge, everything else pays the food one.
var (
	LargeBeverageSurcharge = decimal.NewFromInt(10)
	LargeFoodSurcharge     = decimal.NewFromInt(15)
	AltMilkSurcharge       = decimal.NewFromInt(8)
)

var addonSurchargePattern = regexp.MustCompile(`\(\+R(\d+)\)`)

// UnitPrice returns the price of one unit of an item. Only size, milk and
// add-ons affect the result.
func UnitPrice(base float64, category string, c *domain.Customizations) float64 {
	return unitPrice(decimal.NewFromFloat(base), category, c).Round(2).InexactFloat64()
}

func unitPrice(base decimal.Decimal, category string, c *domain.Customizations) decimal.Decimal {
	price := base
	if c == nil {
		return price
	}

	if strings.EqualFold(c.Size, SizeLarge) {
		if isBeverage(category) {
			price = price.Add(LargeBeverageSurcharge)
		} else {
			price = price.Add(LargeFoodSurcharge)
		}
	}

	if c.Milk != "" && c.Milk != DefaultMilk {
		price = price.Add(AltMilkSurcharge)
	}

	for _, addon := range c.Addons {
		price = price.Add(AddonSurcharge(addon))
	}

	return price
}

// AddonSurcharge parses the "(+R<amount>)" suffix of an add-on label.
// Labels without one cost nothing.
func AddonSurcharge(addon string) decimal.Decimal {
	m := addonSurchargePattern.FindStringSubmatch(addon)
	if m == nil {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero
	}

	return amount
}

func isBeverage(category string) bool {
	return strings.Contains(strings.ToLower(category), "beverages")
}

func LineTotal(line domain.CartLine) float64 {
	return lineTotal(line).Round(2).InexactFloat64()
}

func lineTotal(line domain.CartLine) decimal.Decimal {
	unit := unitPrice(decimal.NewFromFloat(line.Price), line.Category, line.Customizations)
	return unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// CartTotal sums every line at its effective price.
func CartTotal(lines []domain.CartLine) float64 {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(lineTotal(line))
	}

	return total.Round(2).InexactFloat64()
}
