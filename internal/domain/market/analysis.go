package market

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revendo/backend/internal/domain/shared"
)

// AnalysisRecord is one stored market analysis run for a search query.
// The headline price metrics are kept as columns so price history can be
// queried without unpacking the payload.
type AnalysisRecord struct {
	shared.BaseEntity
	SearchText   string          `gorm:"size:255;not null;index"`
	ItemsFound   int             `gorm:"not null;default:0"`
	SellersCount int             `gorm:"not null;default:0"`
	AveragePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MedianPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MinPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MaxPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Payload      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AnalysisRecord) TableName() string {
	return "market_analyses"
}

// NewAnalysisRecord creates a record for a completed analysis
func NewAnalysisRecord(searchText string) (*AnalysisRecord, error) {
	searchText = strings.TrimSpace(searchText)
	if searchText == "" {
		return nil, shared.NewDomainError("INVALID_SEARCH", "Search text cannot be empty")
	}
	return &AnalysisRecord{
		BaseEntity: shared.NewBaseEntity(),
		SearchText: searchText,
	}, nil
}

// AnalysisRepository defines the interface for analysis history persistence
type AnalysisRepository interface {
	// Save stores a completed analysis run
	Save(ctx context.Context, record *AnalysisRecord) error

	// FindRecent returns up to limit past runs for a search query, newest
	// first. Used for the 30-day price trend.
	FindRecent(ctx context.Context, searchText string, limit int) ([]AnalysisRecord, error)
}
