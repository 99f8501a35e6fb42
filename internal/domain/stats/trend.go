package stats

import "github.com/shopspring/decimal"

// Trend is the percentage change of a metric between two periods.
// A zero or absent previous value yields 100 when there is new activity
// and 0 otherwise, deliberately avoiding an "infinite growth" reading.
func Trend(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// TrendPoints is the trend of a metric that is already a percentage
// (margin, sell-through): an absolute percentage-point difference,
// never a relative percent-of-percent.
func TrendPoints(current, previous decimal.Decimal) decimal.Decimal {
	return current.Sub(previous)
}
