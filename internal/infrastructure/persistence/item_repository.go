package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revendo/backend/internal/domain/inventory"
	"github.com/revendo/backend/internal/domain/shared"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID with the shipment resolved
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).Preload("Shipment").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByOwner finds all items of an owner matching the filter
func (r *GormItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var items []inventory.Item
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Item{}).
			Preload("Shipment").
			Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByOwnerSince returns every item of an owner created at or after the
// given instant. The shipment is always preloaded; shipping cost
// derivation needs its price per gram.
func (r *GormItemRepository) FindByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := r.db.WithContext(ctx).
		Preload("Shipment").
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByShipment finds all items attached to a shipment
func (r *GormItemRepository) FindByShipment(ctx context.Context, shipmentID uuid.UUID) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := r.db.WithContext(ctx).
		Preload("Shipment").
		Where("shipment_id = ?", shipmentID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes an item
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOwner counts items of an owner matching the filter
func (r *GormItemRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.Item{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "sold":
			query = query.Where("sold = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "platform":
			query = query.Where("platform = ?", value)
		case "shipment_id":
			query = query.Where("shipment_id = ?", value)
		case "listed":
			if value == true {
				query = query.Where("listed_at IS NOT NULL")
			} else {
				query = query.Where("listed_at IS NULL")
			}
		}
	}
	return query
}
