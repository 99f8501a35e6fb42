package stats

import "time"

// Report is the full statistics payload returned for one
// (owner, period, grouping) request. Sections hold only derived values,
// never the underlying items, so a report can be cached or serialized
// as-is.
type Report struct {
	Period        string             `json:"period"`
	GroupBy       string             `json:"groupBy"`
	Overview      Overview           `json:"overview"`
	TimeSeries    []TimeSeriesBucket `json:"timeSeries"`
	ByPlatform    []PlatformStats    `json:"byPlatform"`
	ByShipment    []ShipmentStats    `json:"byShipment"`
	TopProfit     []ProfitRanking    `json:"topProfit"`
	BottomProfit  []ProfitRanking    `json:"bottomProfit"`
	TimeToSell    TimeToSellStats    `json:"timeToSell"`
	UnsoldAging   []UnsoldItemRow    `json:"unsoldAging"`
	CostBreakdown CostBreakdown      `json:"costBreakdown"`
	MargeMoyenne  float64            `json:"margeMoyenne"`
	TauxVente     float64            `json:"tauxVente"`
	GeneratedAt   time.Time          `json:"generatedAt"`
}

// Overview holds the headline totals and their period-over-period trends
type Overview struct {
	TotalItems       int64          `json:"totalItems"`
	SoldItems        int64          `json:"soldItems"`
	ListedItems      int64          `json:"listedItems"`
	UnlistedItems    int64          `json:"unlistedItems"`
	Revenue          float64        `json:"revenue"`
	Profit           float64        `json:"profit"`
	AvgSalePrice     float64        `json:"avgSalePrice"`
	AvgPurchasePrice float64        `json:"avgPurchasePrice"`
	Trends           OverviewTrends `json:"trends"`
}

// OverviewTrends is the percentage change of each overview metric against
// the previous comparable window. Margin and sell-through move in
// percentage points; the rest are relative percentages.
type OverviewTrends struct {
	Revenue      float64 `json:"revenue"`
	SoldItems    float64 `json:"soldItems"`
	Profit       float64 `json:"profit"`
	AvgSalePrice float64 `json:"avgSalePrice"`
	Margin       float64 `json:"margin"`
	SellThrough  float64 `json:"sellThrough"`
}

// TimeSeriesBucket is one point of the sales evolution series
type TimeSeriesBucket struct {
	Bucket       string  `json:"bucket"`
	Count        int64   `json:"count"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	AvgSalePrice float64 `json:"avgSalePrice"`
	Margin       float64 `json:"margin"`
}

// PlatformStats is the sales performance of one selling platform
type PlatformStats struct {
	Platform    string  `json:"platform"`
	Count       int64   `json:"count"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
	Margin      float64 `json:"margin"`
	MarketShare float64 `json:"marketShare"`
}

// ShipmentStats is the performance of one parcel of items
type ShipmentStats struct {
	ShipmentID  string  `json:"shipmentId,omitempty"`
	Label       string  `json:"label"`
	TotalItems  int64   `json:"totalItems"`
	SoldItems   int64   `json:"soldItems"`
	Revenue     float64 `json:"revenue"`
	TotalCost   float64 `json:"totalCost"`
	Profit      float64 `json:"profit"`
	SellThrough float64 `json:"sellThrough"`
	Roi         float64 `json:"roi"`
}

// ProfitRanking is one row of the top or bottom profit ranking.
// TimeToSellDays is nil when either the listing or sale timestamp is
// missing, which is different from zero days.
type ProfitRanking struct {
	ItemID         string   `json:"itemId"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	SellingPrice   float64  `json:"sellingPrice"`
	Profit         float64  `json:"profit"`
	Margin         float64  `json:"margin"`
	TimeToSellDays *float64 `json:"timeToSellDays"`
}

// TimeToSellStats summarizes how long sold items stayed online
type TimeToSellStats struct {
	MeanDays   float64 `json:"meanDays"`
	MedianDays float64 `json:"medianDays"`
	MinDays    float64 `json:"minDays"`
	MaxDays    float64 `json:"maxDays"`
	Count      int64   `json:"count"`
}

// UnsoldItemRow is one row of the unsold-inventory aging list.
// DaysOnline is nil for items that were never listed.
type UnsoldItemRow struct {
	ItemID     string     `json:"itemId"`
	Name       string     `json:"name"`
	Price      float64    `json:"price"`
	ListedAt   *time.Time `json:"listedAt"`
	DaysOnline *float64   `json:"daysOnline"`
}

// CostBreakdown splits the invested capital of the window
type CostBreakdown struct {
	PurchaseCost       float64 `json:"purchaseCost"`
	ShippingCost       float64 `json:"shippingCost"`
	TotalCost          float64 `json:"totalCost"`
	ShipmentCount      int64   `json:"shipmentCount"`
	AvgCostPerItem     float64 `json:"avgCostPerItem"`
	AvgShippingPerItem float64 `json:"avgShippingPerItem"`
}
