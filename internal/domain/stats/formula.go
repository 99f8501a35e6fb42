// Package stats holds the pure financial math behind the sales statistics
// reports. Every pipeline computes cost and profit through these functions,
// never through its own arithmetic, so the numbers cannot diverge between
// report sections.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/revendo/backend/internal/domain/inventory"
)

var hundred = decimal.NewFromInt(100)

// ShippingCost resolves the effective shipping cost of an item:
// the explicit cost when one was recorded, otherwise the shipment's
// per-gram price times the item weight, otherwise zero.
func ShippingCost(item *inventory.Item) decimal.Decimal {
	if item.ShippingCost != nil {
		return *item.ShippingCost
	}
	if item.Shipment != nil {
		return item.Shipment.PricePerGram.Mul(item.WeightGrams)
	}
	return decimal.Zero
}

// TotalCost is the purchase price plus the resolved shipping cost
func TotalCost(item *inventory.Item) decimal.Decimal {
	return item.Price.Add(ShippingCost(item))
}

// Profit is the selling price minus total cost. Only meaningful for sold
// items; an item without a selling price contributes zero.
func Profit(item *inventory.Item) decimal.Decimal {
	if item.SellingPrice == nil {
		return decimal.Zero
	}
	return item.SellingPrice.Sub(TotalCost(item))
}

// MarginPercent is profit over revenue as a percentage, zero when revenue
// is not positive. Never panics, never returns NaN.
func MarginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred)
}

// RoiPercent is profit over invested cost as a percentage, zero-guarded
func RoiPercent(profit, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(cost).Mul(hundred)
}

// RatePercent is a generic count-over-count percentage (sell-through,
// market share), zero-guarded the same way as the money ratios.
func RatePercent(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Div(decimal.NewFromInt(whole)).Mul(hundred)
}
