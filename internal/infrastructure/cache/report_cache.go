// Package cache provides caching for generated statistics reports.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/revendo/backend/internal/application/stats"
)

// ReportCache stores generated reports keyed by owner, period and grouping
type ReportCache interface {
	// Get returns the cached report or nil on a miss
	Get(ctx context.Context, ownerID uuid.UUID, period, groupBy string) (*stats.Report, error)

	// Set stores a report until the TTL expires
	Set(ctx context.Context, ownerID uuid.UUID, period, groupBy string, report *stats.Report) error

	// InvalidateOwner drops every cached report of an owner. Called after
	// inventory writes so reports never serve stale aggregates.
	InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error
}

func reportKey(ownerID uuid.UUID, period, groupBy string) string {
	return fmt.Sprintf("%s:%s:%s", ownerID, period, groupBy)
}

// NopReportCache disables caching; every lookup is a miss
type NopReportCache struct{}

func (NopReportCache) Get(context.Context, uuid.UUID, string, string) (*stats.Report, error) {
	return nil, nil
}

func (NopReportCache) Set(context.Context, uuid.UUID, string, string, *stats.Report) error {
	return nil
}

func (NopReportCache) InvalidateOwner(context.Context, uuid.UUID) error {
	return nil
}

// entry is one cached report with its expiry
type entry struct {
	report    *stats.Report
	expiresAt time.Time
}

var _ ReportCache = (*NopReportCache)(nil)
