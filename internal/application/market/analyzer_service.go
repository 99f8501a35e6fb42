package market

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/revendo/backend/internal/domain/market"
	"github.com/revendo/backend/internal/domain/shared"
	"github.com/revendo/backend/internal/domain/stats"
	"github.com/revendo/backend/internal/infrastructure/vinted"
)

// trendHistoryDepth caps how many stored runs feed the 30-day price trend
const trendHistoryDepth = 30

// Searcher fetches sold listings from the marketplace
type Searcher interface {
	SearchSold(ctx context.Context, accessToken, searchText string) ([]vinted.SoldItem, error)
}

// PriceAnalysis summarizes the observed sale prices
type PriceAnalysis struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// AnalysisSummary counts the sample
type AnalysisSummary struct {
	ItemsFound   int `json:"itemsFound"`
	SellersCount int `json:"sellersCount"`
}

// KPIs are the derived market indicators
type KPIs struct {
	PrixOptimalRecommande float64 `json:"prixOptimalRecommande"`
	TauxDeRotation        float64 `json:"tauxDeRotation"`
	ScoreCompetitivite    float64 `json:"scoreCompetitivite"`
	TendancePrix30Jours   float64 `json:"tendancePrix30Jours"`
}

// MarketAnalysis is the full result of one analysis run
type MarketAnalysis struct {
	SearchText            string          `json:"searchText"`
	AnalysisTimestamp     time.Time       `json:"analysisTimestamp"`
	PriceAnalysis         PriceAnalysis   `json:"priceAnalysis"`
	Summary               AnalysisSummary `json:"summary"`
	BrandDistribution     map[string]int  `json:"brandDistribution"`
	ConditionDistribution map[string]int  `json:"conditionDistribution"`
	KPIs                  KPIs            `json:"kpis"`
}

// brandCorrections maps common misspellings to canonical brand names
var brandCorrections = map[string]string{
	"nik":     "nike",
	"addidas": "adidas",
	"pumaa":   "puma",
	"zaraa":   "zara",
}

// AnalyzerService samples sold marketplace listings and derives pricing
// indicators from them
type AnalyzerService struct {
	searcher Searcher
	repo     market.AnalysisRepository
	logger   *zap.Logger
}

func NewAnalyzerService(searcher Searcher, repo market.AnalysisRepository, logger *zap.Logger) *AnalyzerService {
	return &AnalyzerService{searcher: searcher, repo: repo, logger: logger}
}

// Analyze runs a sold-listing search and computes price metrics, brand and
// condition distributions and the pricing KPIs. The run is persisted so
// later runs can compute a price trend against it. An empty sample still
// produces (and stores) a zeroed analysis.
func (s *AnalyzerService) Analyze(ctx context.Context, accessToken, searchText string) (*MarketAnalysis, error) {
	searchText = strings.TrimSpace(searchText)
	if searchText == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search text is required")
	}

	items, err := s.searcher.SearchSold(ctx, accessToken, searchText)
	if err != nil {
		s.logger.Warn("marketplace search failed",
			zap.String("search_text", searchText),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrMarketUnavailable, err)
	}

	analysis := s.buildAnalysis(searchText, items)

	if err := s.applyPriceTrend(ctx, analysis); err != nil {
		// history is an enrichment; a failed lookup does not fail the run
		s.logger.Warn("price trend lookup failed", zap.Error(err))
	}

	if err := s.persist(ctx, analysis); err != nil {
		s.logger.Error("failed to store analysis run", zap.Error(err))
		return nil, err
	}
	return analysis, nil
}

// History returns the stored runs for a search, newest first
func (s *AnalyzerService) History(ctx context.Context, searchText string, limit int) ([]market.AnalysisRecord, error) {
	searchText = strings.TrimSpace(searchText)
	if searchText == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search text is required")
	}
	if limit <= 0 || limit > trendHistoryDepth {
		limit = trendHistoryDepth
	}
	return s.repo.FindRecent(ctx, searchText, limit)
}

func (s *AnalyzerService) buildAnalysis(searchText string, items []vinted.SoldItem) *MarketAnalysis {
	analysis := &MarketAnalysis{
		SearchText:            searchText,
		AnalysisTimestamp:     time.Now().UTC(),
		BrandDistribution:     map[string]int{},
		ConditionDistribution: map[string]int{},
	}
	if len(items) == 0 {
		return analysis
	}

	prices := make([]decimal.Decimal, 0, len(items))
	sellers := map[string]struct{}{}
	for _, item := range items {
		prices = append(prices, item.Price)
		if item.SellerLogin != "" {
			sellers[item.SellerLogin] = struct{}{}
		}
		if brand := normalizeBrand(item.Brand); brand != "" {
			analysis.BrandDistribution[brand]++
		}
		if item.Condition != "" {
			analysis.ConditionDistribution[item.Condition]++
		}
	}

	min, max := stats.MinMax(prices)
	avg := stats.Mean(prices)
	analysis.PriceAnalysis = PriceAnalysis{
		Min:     round2(min),
		Max:     round2(max),
		Average: round2(avg),
		Median:  round2(stats.Median(prices)),
	}
	analysis.Summary = AnalysisSummary{
		ItemsFound:   len(items),
		SellersCount: len(sellers),
	}
	analysis.KPIs = computeKPIs(prices, avg, len(items), len(sellers))
	return analysis
}

func computeKPIs(prices []decimal.Decimal, avg decimal.Decimal, itemCount, sellerCount int) KPIs {
	n := decimal.NewFromInt(int64(itemCount))
	hundred := decimal.NewFromInt(100)

	// sold count over an assumed listing pool of twice the sold count
	rotation := n.Div(n.Mul(decimal.NewFromInt(2))).Mul(hundred)

	// tighter price spread and more sellers both read as a more
	// competitive market
	spread := stats.StdDev(prices)
	competitivite := decimal.NewFromInt(1).
		Div(spread.Add(decimal.NewFromInt(1))).
		Mul(decimal.NewFromInt(int64(sellerCount)))

	return KPIs{
		PrixOptimalRecommande: round2(avg.Mul(decimal.NewFromFloat(0.95))),
		TauxDeRotation:        round2(rotation),
		ScoreCompetitivite:    round2(competitivite),
	}
}

// applyPriceTrend compares the current average price with the oldest of
// the recent stored runs
func (s *AnalyzerService) applyPriceTrend(ctx context.Context, analysis *MarketAnalysis) error {
	history, err := s.repo.FindRecent(ctx, analysis.SearchText, trendHistoryDepth)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}
	oldest := history[len(history)-1].AveragePrice
	if !oldest.IsPositive() {
		return nil
	}
	current := decimal.NewFromFloat(analysis.PriceAnalysis.Average)
	trend := current.Sub(oldest).Div(oldest).Mul(decimal.NewFromInt(100))
	analysis.KPIs.TendancePrix30Jours = round2(trend)
	return nil
}

func (s *AnalyzerService) persist(ctx context.Context, analysis *MarketAnalysis) error {
	record, err := market.NewAnalysisRecord(analysis.SearchText)
	if err != nil {
		return err
	}
	record.ItemsFound = analysis.Summary.ItemsFound
	record.SellersCount = analysis.Summary.SellersCount
	record.AveragePrice = decimal.NewFromFloat(analysis.PriceAnalysis.Average)
	record.MedianPrice = decimal.NewFromFloat(analysis.PriceAnalysis.Median)
	record.MinPrice = decimal.NewFromFloat(analysis.PriceAnalysis.Min)
	record.MaxPrice = decimal.NewFromFloat(analysis.PriceAnalysis.Max)

	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis payload: %w", err)
	}
	record.Payload = string(payload)
	return s.repo.Save(ctx, record)
}

// normalizeBrand lowercases, trims and fixes common misspellings
func normalizeBrand(raw string) string {
	brand := strings.ToLower(strings.TrimSpace(raw))
	if corrected, ok := brandCorrections[brand]; ok {
		return corrected
	}
	return brand
}

// TopBrands returns the brand distribution as a sorted slice, most
// frequent first with name as tiebreak
func (a *MarketAnalysis) TopBrands() []BrandCount {
	out := make([]BrandCount, 0, len(a.BrandDistribution))
	for brand, count := range a.BrandDistribution {
		out = append(out, BrandCount{Brand: brand, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// BrandCount pairs a brand with its occurrence count
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
