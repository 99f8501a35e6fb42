package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/revendo/backend/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

var itemColumns = []string{
	"id", "created_at", "updated_at", "owner_id", "name", "category",
	"price", "selling_price", "shipping_cost", "weight_grams", "sold",
	"platform", "listed_at", "sold_at", "shipment_id",
}

func TestGormItemRepositoryFindByID(t *testing.T) {
	t.Run("finds existing item", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		itemID := uuid.New()
		ownerID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(itemColumns).
			AddRow(itemID, now, now, ownerID, "iPhone 12", "electronics",
				decimal.RequireFromString("150"), nil, nil, decimal.RequireFromString("164"),
				false, nil, nil, nil, nil)

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)
		require.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "iPhone 12", item.Name)
		assert.False(t, item.Sold)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing item", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnRows(sqlmock.NewRows(itemColumns))

		item, err := repo.FindByID(context.Background(), itemID)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepositoryFindByOwnerSince(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormItemRepository(db)

	ownerID := uuid.New()
	since := time.Now().Add(-30 * 24 * time.Hour)
	now := time.Now()

	rows := sqlmock.NewRows(itemColumns).
		AddRow(uuid.New(), now, now, ownerID, "Jacket", "clothing",
			decimal.RequireFromString("20"), nil, nil, decimal.RequireFromString("400"),
			false, nil, nil, nil, nil).
		AddRow(uuid.New(), now, now, ownerID, "Sneakers", "shoes",
			decimal.RequireFromString("35"), decimal.RequireFromString("60"), nil,
			decimal.RequireFromString("800"), true, "vinted", now, now, nil)

	mock.ExpectQuery(`SELECT \* FROM "items" WHERE owner_id = \$1 AND created_at >= \$2 ORDER BY created_at ASC`).
		WithArgs(ownerID, since).
		WillReturnRows(rows)

	items, err := repo.FindByOwnerSince(context.Background(), ownerID, since)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Jacket", items[0].Name)
	assert.True(t, items[1].Sold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormItemRepositoryDelete(t *testing.T) {
	t.Run("deletes existing item", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		itemID := uuid.New()
		mock.ExpectExec(`DELETE FROM "items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), itemID))
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(db)

		itemID := uuid.New()
		mock.ExpectExec(`DELETE FROM "items" WHERE id = \$1`).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), itemID), shared.ErrNotFound)
	})
}

func TestGormItemRepositoryCountByOwner(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormItemRepository(db)

	ownerID := uuid.New()
	filter := shared.DefaultFilter()
	filter.Filters["sold"] = false

	mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE owner_id = \$1 AND sold = \$2`).
		WithArgs(ownerID, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByOwner(context.Background(), ownerID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
