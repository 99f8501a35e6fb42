package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/revendo/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByOwner finds all items belonging to an owner
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Item, error)

	// FindByOwnerSince returns every item of an owner created at or after
	// the given instant, with the associated shipment resolved. This is
	// the read contract the statistics pipelines run against.
	FindByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]Item, error)

	// FindByShipment finds all items attached to a shipment
	FindByShipment(ctx context.Context, shipmentID uuid.UUID) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByOwner counts items matching the filter
	CountByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	// FindByID finds a shipment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)

	// FindByOwner finds all shipments belonging to an owner
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Shipment, error)

	// Save creates or updates a shipment
	Save(ctx context.Context, shipment *Shipment) error

	// Delete deletes a shipment
	Delete(ctx context.Context, id uuid.UUID) error
}
