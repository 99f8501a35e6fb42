package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTrend(t *testing.T) {
	t.Run("zero previous with activity signals 100", func(t *testing.T) {
		assert.True(t, Trend(dec("42"), decimal.Zero).Equal(dec("100")))
	})

	t.Run("zero previous without activity signals 0", func(t *testing.T) {
		assert.True(t, Trend(decimal.Zero, decimal.Zero).IsZero())
		assert.True(t, Trend(dec("-5"), decimal.Zero).IsZero())
	})

	t.Run("identical periods have no trend", func(t *testing.T) {
		assert.True(t, Trend(dec("17.5"), dec("17.5")).IsZero())
	})

	t.Run("relative change", func(t *testing.T) {
		assert.True(t, Trend(dec("150"), dec("100")).Equal(dec("50")))
		assert.True(t, Trend(dec("50"), dec("100")).Equal(dec("-50")))
	})
}

func TestTrendPoints(t *testing.T) {
	// ratio metrics move in percentage points, not percent-of-percent
	assert.True(t, TrendPoints(dec("40"), dec("30")).Equal(dec("10")))
	assert.True(t, TrendPoints(dec("25"), dec("40")).Equal(dec("-15")))
	assert.True(t, TrendPoints(decimal.Zero, decimal.Zero).IsZero())
}
