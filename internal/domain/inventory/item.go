package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revendo/backend/internal/domain/shared"
)

// Item is an inventory unit owned by a user: bought once, optionally listed
// on a marketplace, and eventually sold. Financial fields are nullable until
// the lifecycle step that produces them has happened.
type Item struct {
	shared.BaseEntity
	OwnerID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name         string           `gorm:"size:255;not null"`
	Category     string           `gorm:"size:100"`
	Price        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ShippingCost *decimal.Decimal `gorm:"type:decimal(18,2)"`
	WeightGrams  decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Sold         bool             `gorm:"not null;default:false;index"`
	Platform     *string          `gorm:"size:100"`
	ListedAt     *time.Time
	SoldAt       *time.Time
	ShipmentID   *uuid.UUID `gorm:"type:uuid;index"`

	// Association - loaded with the item so shipping cost can be resolved
	Shipment *Shipment `gorm:"foreignKey:ShipmentID;references:ID"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates an unsold, unlisted item for an owner
func NewItem(ownerID uuid.UUID, name string, price, weightGrams decimal.Decimal) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if weightGrams.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}

	return &Item{
		BaseEntity:  shared.NewBaseEntity(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Price:       price,
		WeightGrams: weightGrams,
	}, nil
}

// IsListed reports whether the item has been put online
func (i *Item) IsListed() bool {
	return i.ListedAt != nil
}

// MarkListed records the timestamp the item went online.
// Relisting an already listed item keeps the original date.
func (i *Item) MarkListed(at time.Time) {
	if i.ListedAt != nil {
		return
	}
	t := at
	i.ListedAt = &t
	i.UpdatedAt = time.Now()
}

// MarkSold records the sale. A sold item always carries a selling price,
// a sale timestamp and optionally the platform it was sold on.
func (i *Item) MarkSold(sellingPrice decimal.Decimal, platform string, at time.Time) error {
	if i.Sold {
		return shared.ErrItemAlreadySold
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	price := sellingPrice
	t := at
	i.Sold = true
	i.SellingPrice = &price
	i.SoldAt = &t
	if p := strings.TrimSpace(platform); p != "" {
		i.Platform = &p
	}
	i.UpdatedAt = time.Now()
	return nil
}

// MarkUnsold reverts a sale, clearing the fields that only exist for sold items
func (i *Item) MarkUnsold() error {
	if !i.Sold {
		return shared.ErrItemNotSold
	}
	i.Sold = false
	i.SellingPrice = nil
	i.SoldAt = nil
	i.Platform = nil
	i.UpdatedAt = time.Now()
	return nil
}

// AssignShipment links the item to the parcel it arrived in
func (i *Item) AssignShipment(shipmentID uuid.UUID) error {
	if shipmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_SHIPMENT", "Shipment ID cannot be empty")
	}
	id := shipmentID
	i.ShipmentID = &id
	i.UpdatedAt = time.Now()
	return nil
}
