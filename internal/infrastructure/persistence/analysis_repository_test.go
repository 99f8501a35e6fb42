package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisColumns = []string{
	"id", "created_at", "updated_at", "search_text", "items_found",
	"sellers_count", "average_price", "median_price", "min_price",
	"max_price", "payload",
}

func TestGormAnalysisRepositoryFindRecent(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormAnalysisRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(analysisColumns).
		AddRow(uuid.New(), now, now, "nike air max", 42, 17,
			decimal.RequireFromString("48.5"), decimal.RequireFromString("47"),
			decimal.RequireFromString("20"), decimal.RequireFromString("90"), "{}")

	mock.ExpectQuery(`SELECT \* FROM "market_analyses" WHERE LOWER\(search_text\) = \$1 ORDER BY created_at DESC LIMIT .*`).
		WithArgs("nike air max", 30).
		WillReturnRows(rows)

	records, err := repo.FindRecent(context.Background(), "Nike Air Max", 30)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "nike air max", records[0].SearchText)
	assert.Equal(t, 42, records[0].ItemsFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAnalysisRepositoryLimitClamped(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormAnalysisRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "market_analyses" WHERE LOWER\(search_text\) = \$1 ORDER BY created_at DESC LIMIT .*`).
		WithArgs("nike", maxHistoryLimit).
		WillReturnRows(sqlmock.NewRows(analysisColumns))

	// non-positive limits fall back to the cap instead of failing
	records, err := repo.FindRecent(context.Background(), "nike", -1)
	require.NoError(t, err)
	assert.Empty(t, records)
}
