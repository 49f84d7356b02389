// Package pricing computes item, shipping, and order totals. Every function
// is pure and deterministic; all arithmetic uses decimal values to avoid
// float rounding drift between client display and server truth.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Shipping method identifiers accepted at checkout.
const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
	ShippingPickup   = "pickup"
)

// shippingCosts is the fixed shipping fee table. Methods missing from the
// table cost nothing; an unknown method is a fail-open default, not an error.
var shippingCosts = map[string]decimal.Decimal{
	ShippingStandard: decimal.Zero,
	ShippingExpress:  decimal.NewFromInt(30),
	ShippingPickup:   decimal.Zero,
}

// Line is a priced quantity of a single product.
type Line struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

// LineTotal returns price multiplied by quantity. Callers are responsible
// for passing quantity >= 1 and a non-negative price.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ShippingCost returns the flat fee for the given shipping method, or zero
// for a method not in the table.
func ShippingCost(method string) decimal.Decimal {
	if cost, ok := shippingCosts[method]; ok {
		return cost
	}
	return decimal.Zero
}

// OrderTotal returns the sum of all line totals plus the shipping cost for
// the chosen method, rounded to 2 decimal places.
func OrderTotal(lines []Line, method string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Price, l.Quantity))
	}
	return total.Add(ShippingCost(method)).Round(2)
}
