package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/revendo/backend/internal/application/stats"
)

// InMemoryReportCache is a process-local report cache for single-instance
// deployments and tests
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	return &InMemoryReportCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (c *InMemoryReportCache) Get(ctx context.Context, ownerID uuid.UUID, period, groupBy string) (*stats.Report, error) {
	c.mu.RLock()
	e, ok := c.entries[reportKey(ownerID, period, groupBy)]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.report, nil
}

func (c *InMemoryReportCache) Set(ctx context.Context, ownerID uuid.UUID, period, groupBy string, report *stats.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[reportKey(ownerID, period, groupBy)] = entry{
		report:    report,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

func (c *InMemoryReportCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	prefix := ownerID.String() + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

var _ ReportCache = (*InMemoryReportCache)(nil)
