package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/revendo/backend/internal/domain/market"
)

// maxHistoryLimit caps how many stored runs a single query may return
const maxHistoryLimit = 100

// GormAnalysisRepository implements market.AnalysisRepository using GORM
type GormAnalysisRepository struct {
	db *gorm.DB
}

func NewGormAnalysisRepository(db *gorm.DB) *GormAnalysisRepository {
	return &GormAnalysisRepository{db: db}
}

// Save stores a completed analysis run
func (r *GormAnalysisRepository) Save(ctx context.Context, record *market.AnalysisRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// FindRecent returns up to limit past runs for a search query, newest
// first. The search text is matched case-insensitively so runs for the
// same query always share one history.
func (r *GormAnalysisRepository) FindRecent(ctx context.Context, searchText string, limit int) ([]market.AnalysisRecord, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	var records []market.AnalysisRecord
	if err := r.db.WithContext(ctx).
		Where("LOWER(search_text) = ?", strings.ToLower(strings.TrimSpace(searchText))).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
