package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revendo/backend/internal/domain/inventory"
	"github.com/revendo/backend/internal/domain/shared"
	"github.com/revendo/backend/internal/domain/stats"
)

// ShipmentService provides application-level shipment operations
type ShipmentService struct {
	shipmentRepo inventory.ShipmentRepository
	itemRepo     inventory.ItemRepository
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(shipmentRepo inventory.ShipmentRepository, itemRepo inventory.ItemRepository) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		itemRepo:     itemRepo,
	}
}

// CreateShipmentRequest is the request to create a shipment
type CreateShipmentRequest struct {
	TrackingNumber string  `json:"trackingNumber"`
	Carrier        string  `json:"carrier"`
	PricePerGram   float64 `json:"pricePerGram" binding:"min=0"`
}

// UpdateShipmentStatusRequest moves a shipment through its lifecycle
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ShipmentResponse is a shipment with its allocation summary
type ShipmentResponse struct {
	ID             string    `json:"id"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	PricePerGram   float64   `json:"pricePerGram"`
	Status         string    `json:"status"`
	ItemCount      int       `json:"itemCount"`
	AllocatedCost  float64   `json:"allocatedCost"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *ShipmentService) toResponse(ctx context.Context, shipment *inventory.Shipment) (*ShipmentResponse, error) {
	items, err := s.itemRepo.FindByShipment(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}

	allocated := decimal.Zero
	for i := range items {
		items[i].Shipment = shipment
		allocated = allocated.Add(stats.ShippingCost(&items[i]))
	}

	return &ShipmentResponse{
		ID:             shipment.ID.String(),
		TrackingNumber: shipment.TrackingNumber,
		Carrier:        shipment.Carrier,
		PricePerGram:   toFloat64(shipment.PricePerGram),
		Status:         string(shipment.Status),
		ItemCount:      len(items),
		AllocatedCost:  toFloat64(allocated),
		CreatedAt:      shipment.CreatedAt,
	}, nil
}

// Create creates a new shipment for the owner
func (s *ShipmentService) Create(ctx context.Context, ownerID uuid.UUID, req CreateShipmentRequest) (*ShipmentResponse, error) {
	shipment, err := inventory.NewShipment(ownerID, req.TrackingNumber, req.Carrier, decimal.NewFromFloat(req.PricePerGram))
	if err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, shipment)
}

// GetByID loads one shipment of the owner
func (s *ShipmentService) GetByID(ctx context.Context, ownerID, shipmentID uuid.UUID) (*ShipmentResponse, error) {
	shipment, err := s.findOwned(ctx, ownerID, shipmentID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, shipment)
}

// List returns the owner's shipments
func (s *ShipmentService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ShipmentResponse, error) {
	shipments, err := s.shipmentRepo.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ShipmentResponse, 0, len(shipments))
	for i := range shipments {
		resp, err := s.toResponse(ctx, &shipments[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// UpdateStatus moves the shipment through its delivery lifecycle
func (s *ShipmentService) UpdateStatus(ctx context.Context, ownerID, shipmentID uuid.UUID, req UpdateShipmentStatusRequest) (*ShipmentResponse, error) {
	shipment, err := s.findOwned(ctx, ownerID, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := shipment.UpdateStatus(inventory.ShipmentStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, shipment)
}

// Delete removes a shipment that has no items attached
func (s *ShipmentService) Delete(ctx context.Context, ownerID, shipmentID uuid.UUID) error {
	shipment, err := s.findOwned(ctx, ownerID, shipmentID)
	if err != nil {
		return err
	}
	items, err := s.itemRepo.FindByShipment(ctx, shipment.ID)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return shared.NewDomainError("SHIPMENT_NOT_EMPTY", "Shipment still has items attached")
	}
	return s.shipmentRepo.Delete(ctx, shipment.ID)
}

func (s *ShipmentService) findOwned(ctx context.Context, ownerID, shipmentID uuid.UUID) (*inventory.Shipment, error) {
	shipment, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return shipment, nil
}
