package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Mean averages a sample, zero for an empty one
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// Median returns the value at index n/2 of the sorted sample. For
// even-length samples this is the upper-middle value, a fixed tie-break
// rather than an average of the two middle values. Zero for an empty
// sample.
func Median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return sorted[len(sorted)/2]
}

// StdDev returns the population standard deviation of a sample, zero
// for an empty one
func StdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	mean := Mean(values)
	sumSq := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		sumSq = sumSq.Add(d.Mul(d))
	}
	variance, _ := sumSq.Div(decimal.NewFromInt(int64(len(values)))).Float64()
	return decimal.NewFromFloat(math.Sqrt(variance))
}

// MinMax returns the smallest and largest values of a sample, zeros for
// an empty one
func MinMax(values []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	return min, max
}
