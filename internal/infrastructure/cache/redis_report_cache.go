package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/revendo/backend/internal/application/stats"
)

const reportKeyPrefix = "report:"

// RedisReportCache shares cached reports across instances. Reports are
// stored as JSON under report:<owner>:<period>:<groupBy>.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisReportCache) Get(ctx context.Context, ownerID uuid.UUID, period, groupBy string) (*stats.Report, error) {
	data, err := c.client.Get(ctx, reportKeyPrefix+reportKey(ownerID, period, groupBy)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report stats.Report
	if err := json.Unmarshal(data, &report); err != nil {
		// a corrupt entry is treated as a miss, not an error
		c.logger.Warn("dropping unreadable cached report", zap.Error(err))
		return nil, nil
	}
	return &report, nil
}

func (c *RedisReportCache) Set(ctx context.Context, ownerID uuid.UUID, period, groupBy string, report *stats.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	key := reportKeyPrefix + reportKey(ownerID, period, groupBy)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// InvalidateOwner scans for the owner's keys rather than tracking them;
// an owner has at most a handful of period/grouping combinations
func (c *RedisReportCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	pattern := reportKeyPrefix + ownerID.String() + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached reports: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached reports: %w", err)
	}
	return nil
}

var _ ReportCache = (*RedisReportCache)(nil)
