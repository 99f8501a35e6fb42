package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/revendo/backend/internal/domain/inventory"
	"github.com/revendo/backend/internal/domain/shared"
	"github.com/revendo/backend/internal/domain/stats"
)

// PipelineObserver receives timing signals from the report pipelines.
// Implementations are constructed explicitly and passed in; there is no
// package-level default emitter.
type PipelineObserver interface {
	PipelineCompleted(ctx context.Context, pipeline string, duration time.Duration)
}

// NopObserver discards all pipeline signals
type NopObserver struct{}

func (NopObserver) PipelineCompleted(context.Context, string, time.Duration) {}

// StatsService assembles the full statistics report for an owner.
// The item snapshot is fetched once per request; every pipeline then runs
// as a pure computation over it, so concurrent pipelines never disagree
// about the underlying data.
type StatsService struct {
	itemRepo inventory.ItemRepository
	observer PipelineObserver
	logger   *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(itemRepo inventory.ItemRepository, observer PipelineObserver, logger *zap.Logger) *StatsService {
	if observer == nil {
		observer = NopObserver{}
	}
	return &StatsService{
		itemRepo: itemRepo,
		observer: observer,
		logger:   logger,
	}
}

// GenerateReport computes the statistics report for (owner, period, grouping).
// The report is all-or-nothing: a failing pipeline fails the whole request
// rather than leaving its section silently empty.
func (s *StatsService) GenerateReport(ctx context.Context, ownerID uuid.UUID, periodToken, groupByToken string) (*Report, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	groupBy, err := stats.ParseGroupBy(groupByToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_GROUP_BY", err.Error())
	}

	now := time.Now().UTC()
	window := stats.ResolvePeriod(periodToken, now)

	since := window.Start
	if window.HasComparison() {
		since = window.PrevStart
	}
	items, err := s.itemRepo.FindByOwnerSince(ctx, ownerID, since)
	if err != nil {
		s.logger.Error("failed to load items for report",
			zap.String("owner_id", ownerID.String()),
			zap.String("period", window.Token),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrReportFailed, err)
	}

	current, previous := splitWindows(items, window)

	report := &Report{
		Period:  window.Token,
		GroupBy: groupBy,
	}

	g, gctx := errgroup.WithContext(ctx)
	run := func(pipeline string, fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := fn(); err != nil {
				return fmt.Errorf("%s pipeline: %w", pipeline, err)
			}
			s.observer.PipelineCompleted(gctx, pipeline, time.Since(start))
			return nil
		})
	}

	run("overview", func() error {
		cur := computeOverviewTotals(current)
		var prev overviewTotals
		if window.HasComparison() {
			prev = computeOverviewTotals(previous)
		}
		report.Overview = buildOverview(cur, prev, window.HasComparison())
		report.MargeMoyenne = toFloat64(cur.margin)
		report.TauxVente = toFloat64(cur.sellThrough)
		return nil
	})
	run("time_series", func() error {
		report.TimeSeries = computeTimeSeries(current, groupBy)
		return nil
	})
	run("by_platform", func() error {
		report.ByPlatform = computeByPlatform(current)
		return nil
	})
	run("by_shipment", func() error {
		report.ByShipment = computeByShipment(current)
		return nil
	})
	run("rankings", func() error {
		report.TopProfit, report.BottomProfit = computeRankings(current)
		return nil
	})
	run("time_to_sell", func() error {
		report.TimeToSell = computeTimeToSell(current)
		return nil
	})
	run("unsold_aging", func() error {
		report.UnsoldAging = computeUnsoldAging(current, now)
		return nil
	})
	run("cost_breakdown", func() error {
		report.CostBreakdown = computeCostBreakdown(current)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("report generation aborted",
			zap.String("owner_id", ownerID.String()),
			zap.String("period", window.Token),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrReportFailed, err)
	}

	report.GeneratedAt = time.Now().UTC()
	return report, nil
}

// splitWindows partitions the fetched snapshot into the current window and
// the previous comparable window, by item creation time. For "all time"
// everything is current and the previous slice stays empty.
func splitWindows(items []inventory.Item, window stats.PeriodWindow) (current, previous []inventory.Item) {
	if !window.HasComparison() {
		return items, nil
	}
	current = make([]inventory.Item, 0, len(items))
	previous = make([]inventory.Item, 0)
	for _, item := range items {
		switch {
		case !item.CreatedAt.Before(window.Start):
			current = append(current, item)
		case !item.CreatedAt.Before(window.PrevStart) && item.CreatedAt.Before(window.PrevEnd):
			previous = append(previous, item)
		}
	}
	return current, previous
}
