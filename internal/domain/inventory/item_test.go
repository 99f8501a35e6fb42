package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revendo/backend/internal/domain/shared"
)

func TestNewItem(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates unsold unlisted item", func(t *testing.T) {
		item, err := NewItem(ownerID, "Nike Air Max", decimal.NewFromInt(10), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, ownerID, item.OwnerID)
		assert.False(t, item.Sold)
		assert.Nil(t, item.SellingPrice)
		assert.Nil(t, item.ListedAt)
		assert.Nil(t, item.SoldAt)
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		_, err := NewItem(uuid.Nil, "Nike Air Max", decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem(ownerID, "  ", decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewItem(ownerID, "Nike Air Max", decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestItemMarkSold(t *testing.T) {
	item, err := NewItem(uuid.New(), "Levi's 501", decimal.NewFromInt(8), decimal.NewFromInt(450))
	require.NoError(t, err)

	soldAt := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	err = item.MarkSold(decimal.NewFromInt(22), "vinted", soldAt)
	require.NoError(t, err)

	assert.True(t, item.Sold)
	require.NotNil(t, item.SellingPrice)
	assert.True(t, item.SellingPrice.Equal(decimal.NewFromInt(22)))
	require.NotNil(t, item.SoldAt)
	assert.Equal(t, soldAt, *item.SoldAt)
	require.NotNil(t, item.Platform)
	assert.Equal(t, "vinted", *item.Platform)

	t.Run("selling twice fails", func(t *testing.T) {
		err := item.MarkSold(decimal.NewFromInt(30), "vinted", time.Now())
		assert.ErrorIs(t, err, shared.ErrItemAlreadySold)
	})

	t.Run("blank platform stays nil", func(t *testing.T) {
		other, err := NewItem(uuid.New(), "Levi's 501", decimal.NewFromInt(8), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, other.MarkSold(decimal.NewFromInt(22), "  ", time.Now()))
		assert.Nil(t, other.Platform)
	})
}

func TestItemMarkUnsold(t *testing.T) {
	item, err := NewItem(uuid.New(), "Carhartt jacket", decimal.NewFromInt(15), decimal.NewFromInt(800))
	require.NoError(t, err)

	t.Run("reverting an unsold item fails", func(t *testing.T) {
		assert.ErrorIs(t, item.MarkUnsold(), shared.ErrItemNotSold)
	})

	require.NoError(t, item.MarkSold(decimal.NewFromInt(40), "vinted", time.Now()))
	require.NoError(t, item.MarkUnsold())
	assert.False(t, item.Sold)
	assert.Nil(t, item.SellingPrice)
	assert.Nil(t, item.SoldAt)
	assert.Nil(t, item.Platform)
}

func TestItemMarkListed(t *testing.T) {
	item, err := NewItem(uuid.New(), "Adidas Samba", decimal.NewFromInt(20), decimal.NewFromInt(600))
	require.NoError(t, err)

	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	item.MarkListed(first)
	require.NotNil(t, item.ListedAt)
	assert.Equal(t, first, *item.ListedAt)

	// relisting keeps the original date
	item.MarkListed(first.AddDate(0, 1, 0))
	assert.Equal(t, first, *item.ListedAt)
}
