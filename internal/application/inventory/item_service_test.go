package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/revendo/backend/internal/domain/inventory"
	"github.com/revendo/backend/internal/domain/shared"
)

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *mockItemRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *mockItemRepo) FindByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]inventory.Item, error) {
	args := m.Called(ctx, ownerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *mockItemRepo) FindByShipment(ctx context.Context, shipmentID uuid.UUID) ([]inventory.Item, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *mockItemRepo) Save(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockItemRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockShipmentRepo struct {
	mock.Mock
}

func (m *mockShipmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Shipment), args.Error(1)
}

func (m *mockShipmentRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]inventory.Shipment, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Shipment), args.Error(1)
}

func (m *mockShipmentRepo) Save(ctx context.Context, shipment *inventory.Shipment) error {
	return m.Called(ctx, shipment).Error(0)
}

func (m *mockShipmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestItemServiceCreate(t *testing.T) {
	ownerID := uuid.New()

	t.Run("plain item", func(t *testing.T) {
		itemRepo := new(mockItemRepo)
		itemRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Item")).Return(nil)
		service := NewItemService(itemRepo, new(mockShipmentRepo))

		resp, err := service.Create(context.Background(), ownerID, CreateItemRequest{
			Name:  "Nike Air Max",
			Price: 12.5,
		})
		require.NoError(t, err)
		assert.Equal(t, "Nike Air Max", resp.Name)
		assert.InDelta(t, 12.5, resp.Price, 0.0001)
		assert.InDelta(t, 12.5, resp.TotalCost, 0.0001, "no shipping source means zero shipping")
		assert.False(t, resp.Sold)
		itemRepo.AssertExpectations(t)
	})

	t.Run("attaching someone else's shipment fails", func(t *testing.T) {
		shipment, err := inventory.NewShipment(uuid.New(), "TRACK-9", "ups", decimal.NewFromFloat(0.03))
		require.NoError(t, err)

		shipmentRepo := new(mockShipmentRepo)
		shipmentRepo.On("FindByID", mock.Anything, shipment.ID).Return(shipment, nil)
		itemRepo := new(mockItemRepo)
		service := NewItemService(itemRepo, shipmentRepo)

		shipmentID := shipment.ID.String()
		_, err = service.Create(context.Background(), ownerID, CreateItemRequest{
			Name:       "Levi's 501",
			Price:      8,
			ShipmentID: &shipmentID,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestItemServiceMarkSold(t *testing.T) {
	ownerID := uuid.New()
	item, err := inventory.NewItem(ownerID, "Carhartt jacket", decimal.NewFromInt(15), decimal.NewFromInt(800))
	require.NoError(t, err)

	itemRepo := new(mockItemRepo)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	itemRepo.On("Save", mock.Anything, item).Return(nil)
	service := NewItemService(itemRepo, new(mockShipmentRepo))

	resp, err := service.MarkSold(context.Background(), ownerID, item.ID, MarkSoldRequest{
		SellingPrice: 40,
		Platform:     "vinted",
	})
	require.NoError(t, err)
	assert.True(t, resp.Sold)
	require.NotNil(t, resp.Profit)
	assert.InDelta(t, 25, *resp.Profit, 0.0001)

	t.Run("second sale is rejected", func(t *testing.T) {
		_, err := service.MarkSold(context.Background(), ownerID, item.ID, MarkSoldRequest{SellingPrice: 50})
		assert.ErrorIs(t, err, shared.ErrItemAlreadySold)
	})
}

func TestItemServiceOwnershipScoping(t *testing.T) {
	ownerID := uuid.New()
	item, err := inventory.NewItem(ownerID, "Adidas Samba", decimal.NewFromInt(20), decimal.Zero)
	require.NoError(t, err)

	itemRepo := new(mockItemRepo)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	service := NewItemService(itemRepo, new(mockShipmentRepo))

	_, err = service.GetByID(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "foreign items look like missing ones")

	err = service.Delete(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	itemRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestItemServiceUpdateValidation(t *testing.T) {
	ownerID := uuid.New()
	item, err := inventory.NewItem(ownerID, "Ralph Lauren shirt", decimal.NewFromInt(7), decimal.Zero)
	require.NoError(t, err)

	itemRepo := new(mockItemRepo)
	itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	service := NewItemService(itemRepo, new(mockShipmentRepo))

	negative := -3.0
	_, err = service.Update(context.Background(), ownerID, item.ID, UpdateItemRequest{Price: &negative})
	assert.Error(t, err)
	itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
