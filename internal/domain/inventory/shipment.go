package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revendo/backend/internal/domain/shared"
)

// ShipmentStatus represents the delivery state of a parcel
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusReceived  ShipmentStatus = "received"
)

// Shipment is a parcel of items acquired together. Its per-gram price is
// the fallback allocator for items that have no explicit shipping cost.
type Shipment struct {
	shared.BaseEntity
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TrackingNumber string          `gorm:"size:100"`
	Carrier        string          `gorm:"size:100"`
	PricePerGram   decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Status         ShipmentStatus  `gorm:"size:20;not null;default:'pending'"`

	Items []Item `gorm:"foreignKey:ShipmentID;references:ID"`
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// NewShipment creates a pending shipment for an owner
func NewShipment(ownerID uuid.UUID, trackingNumber, carrier string, pricePerGram decimal.Decimal) (*Shipment, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if pricePerGram.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per gram cannot be negative")
	}

	return &Shipment{
		BaseEntity:     shared.NewBaseEntity(),
		OwnerID:        ownerID,
		TrackingNumber: strings.TrimSpace(trackingNumber),
		Carrier:        strings.TrimSpace(carrier),
		PricePerGram:   pricePerGram,
		Status:         ShipmentStatusPending,
	}, nil
}

// UpdateStatus moves the shipment through its delivery lifecycle
func (s *Shipment) UpdateStatus(status ShipmentStatus) error {
	switch status {
	case ShipmentStatusPending, ShipmentStatusInTransit, ShipmentStatusReceived:
		s.Status = status
		s.UpdatedAt = time.Now()
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown shipment status")
	}
}
