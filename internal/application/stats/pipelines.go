package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revendo/backend/internal/domain/inventory"
	"github.com/revendo/backend/internal/domain/stats"
)

// Every pipeline below is a pure computation over the item snapshot of one
// window. Cost and profit always go through the domain formula functions;
// no pipeline carries its own arithmetic for them.

const (
	unsoldAgingLimit = 50
	rankingLimit     = 10
	secondsPerDay    = 86400.0
)

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// overviewTotals keeps the overview metrics in exact decimals so the trend
// comparison against the previous window is not done on rounded floats.
type overviewTotals struct {
	totalItems    int64
	soldItems     int64
	listedItems   int64
	unlistedItems int64
	revenue       decimal.Decimal
	profit        decimal.Decimal
	purchaseTotal decimal.Decimal
	avgSalePrice  decimal.Decimal
	avgPurchase   decimal.Decimal
	margin        decimal.Decimal
	sellThrough   decimal.Decimal
}

func computeOverviewTotals(items []inventory.Item) overviewTotals {
	t := overviewTotals{
		revenue:       decimal.Zero,
		profit:        decimal.Zero,
		purchaseTotal: decimal.Zero,
		avgSalePrice:  decimal.Zero,
		avgPurchase:   decimal.Zero,
		margin:        decimal.Zero,
		sellThrough:   decimal.Zero,
	}

	for i := range items {
		item := &items[i]
		t.totalItems++
		t.purchaseTotal = t.purchaseTotal.Add(item.Price)

		switch {
		case item.Sold:
			t.soldItems++
			if item.SellingPrice != nil {
				t.revenue = t.revenue.Add(*item.SellingPrice)
			}
			t.profit = t.profit.Add(stats.Profit(item))
		case item.IsListed():
			t.listedItems++
		default:
			t.unlistedItems++
		}
	}

	if t.soldItems > 0 {
		t.avgSalePrice = t.revenue.Div(decimal.NewFromInt(t.soldItems))
	}
	if t.totalItems > 0 {
		t.avgPurchase = t.purchaseTotal.Div(decimal.NewFromInt(t.totalItems))
	}
	t.margin = stats.MarginPercent(t.profit, t.revenue)
	t.sellThrough = stats.RatePercent(t.soldItems, t.totalItems)

	return t
}

// buildOverview merges the current totals with the trend vector against the
// previous window. Without a comparison window the trend vector stays zero.
func buildOverview(current, previous overviewTotals, hasComparison bool) Overview {
	o := Overview{
		TotalItems:       current.totalItems,
		SoldItems:        current.soldItems,
		ListedItems:      current.listedItems,
		UnlistedItems:    current.unlistedItems,
		Revenue:          toFloat64(current.revenue),
		Profit:           toFloat64(current.profit),
		AvgSalePrice:     toFloat64(current.avgSalePrice),
		AvgPurchasePrice: toFloat64(current.avgPurchase),
	}

	if !hasComparison {
		return o
	}

	o.Trends = OverviewTrends{
		Revenue:      toFloat64(stats.Trend(current.revenue, previous.revenue)),
		SoldItems:    toFloat64(stats.Trend(decimal.NewFromInt(current.soldItems), decimal.NewFromInt(previous.soldItems))),
		Profit:       toFloat64(stats.Trend(current.profit, previous.profit)),
		AvgSalePrice: toFloat64(stats.Trend(current.avgSalePrice, previous.avgSalePrice)),
		Margin:       toFloat64(stats.TrendPoints(current.margin, previous.margin)),
		SellThrough:  toFloat64(stats.TrendPoints(current.sellThrough, previous.sellThrough)),
	}
	return o
}

func computeTimeSeries(items []inventory.Item, groupBy string) []TimeSeriesBucket {
	type bucketTotals struct {
		count   int64
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	buckets := make(map[string]*bucketTotals)

	for i := range items {
		item := &items[i]
		if !item.Sold || item.SoldAt == nil {
			continue
		}
		key := stats.BucketKey(groupBy, item.SoldAt.UTC())
		b, ok := buckets[key]
		if !ok {
			b = &bucketTotals{revenue: decimal.Zero, profit: decimal.Zero}
			buckets[key] = b
		}
		b.count++
		if item.SellingPrice != nil {
			b.revenue = b.revenue.Add(*item.SellingPrice)
		}
		b.profit = b.profit.Add(stats.Profit(item))
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	// bucket keys are built to sort chronologically as strings
	sort.Strings(keys)

	series := make([]TimeSeriesBucket, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		avg := decimal.Zero
		if b.count > 0 {
			avg = b.revenue.Div(decimal.NewFromInt(b.count))
		}
		series = append(series, TimeSeriesBucket{
			Bucket:       key,
			Count:        b.count,
			Revenue:      toFloat64(b.revenue),
			Profit:       toFloat64(b.profit),
			AvgSalePrice: toFloat64(avg),
			Margin:       toFloat64(stats.MarginPercent(b.profit, b.revenue)),
		})
	}
	return series
}

const unspecifiedPlatform = "unspecified"

func computeByPlatform(items []inventory.Item) []PlatformStats {
	type platformTotals struct {
		count   int64
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	groups := make(map[string]*platformTotals)
	var totalSold int64

	for i := range items {
		item := &items[i]
		if !item.Sold {
			continue
		}
		totalSold++
		label := unspecifiedPlatform
		if item.Platform != nil && *item.Platform != "" {
			label = *item.Platform
		}
		g, ok := groups[label]
		if !ok {
			g = &platformTotals{revenue: decimal.Zero, profit: decimal.Zero}
			groups[label] = g
		}
		g.count++
		if item.SellingPrice != nil {
			g.revenue = g.revenue.Add(*item.SellingPrice)
		}
		g.profit = g.profit.Add(stats.Profit(item))
	}

	result := make([]PlatformStats, 0, len(groups))
	for label, g := range groups {
		result = append(result, PlatformStats{
			Platform:    label,
			Count:       g.count,
			Revenue:     toFloat64(g.revenue),
			Profit:      toFloat64(g.profit),
			Margin:      toFloat64(stats.MarginPercent(g.profit, g.revenue)),
			MarketShare: toFloat64(stats.RatePercent(g.count, totalSold)),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Platform < result[j].Platform
	})
	return result
}

const noShipmentLabel = "no shipment"

func computeByShipment(items []inventory.Item) []ShipmentStats {
	type shipmentTotals struct {
		id      string
		label   string
		total   int64
		sold    int64
		revenue decimal.Decimal
		cost    decimal.Decimal
		profit  decimal.Decimal
	}
	groups := make(map[string]*shipmentTotals)

	for i := range items {
		item := &items[i]

		key := noShipmentLabel
		id := ""
		label := noShipmentLabel
		if item.ShipmentID != nil {
			id = item.ShipmentID.String()
			key = id
			label = id
			if item.Shipment != nil && item.Shipment.TrackingNumber != "" {
				label = item.Shipment.TrackingNumber
			}
		}

		g, ok := groups[key]
		if !ok {
			g = &shipmentTotals{
				id:      id,
				label:   label,
				revenue: decimal.Zero,
				cost:    decimal.Zero,
				profit:  decimal.Zero,
			}
			groups[key] = g
		}
		g.total++
		g.cost = g.cost.Add(stats.TotalCost(item))
		if item.Sold {
			g.sold++
			if item.SellingPrice != nil {
				g.revenue = g.revenue.Add(*item.SellingPrice)
			}
			g.profit = g.profit.Add(stats.Profit(item))
		}
	}

	result := make([]ShipmentStats, 0, len(groups))
	for _, g := range groups {
		result = append(result, ShipmentStats{
			ShipmentID:  g.id,
			Label:       g.label,
			TotalItems:  g.total,
			SoldItems:   g.sold,
			Revenue:     toFloat64(g.revenue),
			TotalCost:   toFloat64(g.cost),
			Profit:      toFloat64(g.profit),
			SellThrough: toFloat64(stats.RatePercent(g.sold, g.total)),
			Roi:         toFloat64(stats.RoiPercent(g.profit, g.cost)),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Label < result[j].Label
	})
	return result
}

// timeToSellDays is nil unless both the listing and sale timestamps exist
func timeToSellDays(item *inventory.Item) *float64 {
	if item.ListedAt == nil || item.SoldAt == nil {
		return nil
	}
	days := item.SoldAt.Sub(*item.ListedAt).Seconds() / secondsPerDay
	return &days
}

func computeRankings(items []inventory.Item) (top, bottom []ProfitRanking) {
	type soldEntry struct {
		item   *inventory.Item
		profit decimal.Decimal
	}
	sold := make([]soldEntry, 0, len(items))
	for i := range items {
		item := &items[i]
		if !item.Sold || item.SellingPrice == nil {
			continue
		}
		sold = append(sold, soldEntry{item: item, profit: stats.Profit(item)})
	}

	sort.Slice(sold, func(i, j int) bool {
		if !sold[i].profit.Equal(sold[j].profit) {
			return sold[i].profit.GreaterThan(sold[j].profit)
		}
		return sold[i].item.Name < sold[j].item.Name
	})

	toRanking := func(e soldEntry) ProfitRanking {
		return ProfitRanking{
			ItemID:         e.item.ID.String(),
			Name:           e.item.Name,
			Price:          toFloat64(e.item.Price),
			SellingPrice:   toFloat64(*e.item.SellingPrice),
			Profit:         toFloat64(e.profit),
			Margin:         toFloat64(stats.MarginPercent(e.profit, *e.item.SellingPrice)),
			TimeToSellDays: timeToSellDays(e.item),
		}
	}

	top = make([]ProfitRanking, 0, rankingLimit)
	for _, e := range sold {
		if len(top) == rankingLimit {
			break
		}
		top = append(top, toRanking(e))
	}

	bottom = make([]ProfitRanking, 0, rankingLimit)
	for i := len(sold) - 1; i >= 0 && len(bottom) < rankingLimit; i-- {
		bottom = append(bottom, toRanking(sold[i]))
	}
	return top, bottom
}

func computeTimeToSell(items []inventory.Item) TimeToSellStats {
	samples := make([]decimal.Decimal, 0, len(items))
	for i := range items {
		item := &items[i]
		if !item.Sold {
			continue
		}
		if days := timeToSellDays(item); days != nil {
			samples = append(samples, decimal.NewFromFloat(*days))
		}
	}

	min, max := stats.MinMax(samples)
	return TimeToSellStats{
		MeanDays:   toFloat64(stats.Mean(samples)),
		MedianDays: toFloat64(stats.Median(samples)),
		MinDays:    toFloat64(min),
		MaxDays:    toFloat64(max),
		Count:      int64(len(samples)),
	}
}

func computeUnsoldAging(items []inventory.Item, now time.Time) []UnsoldItemRow {
	unsold := make([]*inventory.Item, 0, len(items))
	for i := range items {
		if !items[i].Sold {
			unsold = append(unsold, &items[i])
		}
	}

	// oldest listing first; never-listed items come last, oldest created first
	sort.Slice(unsold, func(i, j int) bool {
		a, b := unsold[i], unsold[j]
		switch {
		case a.ListedAt != nil && b.ListedAt != nil:
			return a.ListedAt.Before(*b.ListedAt)
		case a.ListedAt != nil:
			return true
		case b.ListedAt != nil:
			return false
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	if len(unsold) > unsoldAgingLimit {
		unsold = unsold[:unsoldAgingLimit]
	}

	rows := make([]UnsoldItemRow, 0, len(unsold))
	for _, item := range unsold {
		row := UnsoldItemRow{
			ItemID:   item.ID.String(),
			Name:     item.Name,
			Price:    toFloat64(item.Price),
			ListedAt: item.ListedAt,
		}
		if item.ListedAt != nil {
			days := now.Sub(*item.ListedAt).Seconds() / secondsPerDay
			row.DaysOnline = &days
		}
		rows = append(rows, row)
	}
	return rows
}

func computeCostBreakdown(items []inventory.Item) CostBreakdown {
	purchase := decimal.Zero
	shipping := decimal.Zero
	shipments := make(map[string]struct{})

	for i := range items {
		item := &items[i]
		purchase = purchase.Add(item.Price)
		shipping = shipping.Add(stats.ShippingCost(item))
		if item.ShipmentID != nil {
			shipments[item.ShipmentID.String()] = struct{}{}
		}
	}

	total := purchase.Add(shipping)
	avgCost := decimal.Zero
	avgShipping := decimal.Zero
	if n := int64(len(items)); n > 0 {
		avgCost = total.Div(decimal.NewFromInt(n))
		avgShipping = shipping.Div(decimal.NewFromInt(n))
	}

	return CostBreakdown{
		PurchaseCost:       toFloat64(purchase),
		ShippingCost:       toFloat64(shipping),
		TotalCost:          toFloat64(total),
		ShipmentCount:      int64(len(shipments)),
		AvgCostPerItem:     toFloat64(avgCost),
		AvgShippingPerItem: toFloat64(avgShipping),
	}
}
