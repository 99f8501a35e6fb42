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

// ItemService provides application-level item operations.
// Every method is scoped to the requesting owner; an item belonging to
// someone else behaves exactly like a missing one.
type ItemService struct {
	itemRepo     inventory.ItemRepository
	shipmentRepo inventory.ShipmentRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo inventory.ItemRepository, shipmentRepo inventory.ShipmentRepository) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		shipmentRepo: shipmentRepo,
	}
}

// CreateItemRequest is the request to create an item
type CreateItemRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category"`
	Price        float64  `json:"price" binding:"min=0"`
	WeightGrams  float64  `json:"weightGrams" binding:"min=0"`
	ShipmentID   *string  `json:"shipmentId"`
	ListedAt     *string  `json:"listedAt"` // RFC 3339
	ShippingCost *float64 `json:"shippingCost"`
}

// UpdateItemRequest is the request to update an item's descriptive fields
type UpdateItemRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Price        *float64 `json:"price"`
	WeightGrams  *float64 `json:"weightGrams"`
	ShippingCost *float64 `json:"shippingCost"`
}

// MarkSoldRequest records a sale
type MarkSoldRequest struct {
	SellingPrice float64 `json:"sellingPrice" binding:"min=0"`
	Platform     string  `json:"platform"`
	SoldAt       *string `json:"soldAt"` // RFC 3339, defaults to now
}

// ItemResponse is an item with its derived financials. Cost and profit come
// from the same formulas the statistics reports use.
type ItemResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	Price        float64    `json:"price"`
	SellingPrice *float64   `json:"sellingPrice"`
	WeightGrams  float64    `json:"weightGrams"`
	ShippingCost float64    `json:"shippingCost"`
	TotalCost    float64    `json:"totalCost"`
	Profit       *float64   `json:"profit"`
	Sold         bool       `json:"sold"`
	Platform     *string    `json:"platform"`
	ListedAt     *time.Time `json:"listedAt"`
	SoldAt       *time.Time `json:"soldAt"`
	ShipmentID   *string    `json:"shipmentId"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toItemResponse(item *inventory.Item) *ItemResponse {
	resp := &ItemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		Category:     item.Category,
		Price:        toFloat64(item.Price),
		WeightGrams:  toFloat64(item.WeightGrams),
		ShippingCost: toFloat64(stats.ShippingCost(item)),
		TotalCost:    toFloat64(stats.TotalCost(item)),
		Sold:         item.Sold,
		Platform:     item.Platform,
		ListedAt:     item.ListedAt,
		SoldAt:       item.SoldAt,
		CreatedAt:    item.CreatedAt,
	}
	if item.SellingPrice != nil {
		selling := toFloat64(*item.SellingPrice)
		resp.SellingPrice = &selling
		profit := toFloat64(stats.Profit(item))
		resp.Profit = &profit
	}
	if item.ShipmentID != nil {
		id := item.ShipmentID.String()
		resp.ShipmentID = &id
	}
	return resp
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Create creates a new item for the owner
func (s *ItemService) Create(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	item, err := inventory.NewItem(ownerID, req.Name, decimal.NewFromFloat(req.Price), decimal.NewFromFloat(req.WeightGrams))
	if err != nil {
		return nil, err
	}
	item.Category = req.Category

	if req.ShippingCost != nil {
		cost := decimal.NewFromFloat(*req.ShippingCost)
		if cost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
		}
		item.ShippingCost = &cost
	}

	if req.ShipmentID != nil {
		shipmentID, err := uuid.Parse(*req.ShipmentID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_SHIPMENT", "Invalid shipment ID")
		}
		shipment, err := s.shipmentRepo.FindByID(ctx, shipmentID)
		if err != nil {
			return nil, err
		}
		if shipment.OwnerID != ownerID {
			return nil, shared.ErrNotFound
		}
		if err := item.AssignShipment(shipment.ID); err != nil {
			return nil, err
		}
	}

	if req.ListedAt != nil {
		listedAt, err := time.Parse(time.RFC3339, *req.ListedAt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "listedAt must be RFC 3339")
		}
		item.MarkListed(listedAt)
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID loads one item of the owner
func (s *ItemService) GetByID(ctx context.Context, ownerID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List returns the owner's items with pagination
func (s *ItemService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ItemResponse, int64, error) {
	items, err := s.itemRepo.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toItemResponse(&items[i]))
	}
	return responses, total, nil
}

// Update changes the item's descriptive fields
func (s *ItemService) Update(ctx context.Context, ownerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
		}
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		if price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
		}
		item.Price = price
	}
	if req.WeightGrams != nil {
		weight := decimal.NewFromFloat(*req.WeightGrams)
		if weight.IsNegative() {
			return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
		}
		item.WeightGrams = weight
	}
	if req.ShippingCost != nil {
		cost := decimal.NewFromFloat(*req.ShippingCost)
		if cost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
		}
		item.ShippingCost = &cost
	}
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete removes an item of the owner
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID uuid.UUID) error {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, item.ID)
}

// MarkListed records when the item went online
func (s *ItemService) MarkListed(ctx context.Context, ownerID, itemID uuid.UUID, at time.Time) (*ItemResponse, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	item.MarkListed(at)
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// MarkSold records a sale
func (s *ItemService) MarkSold(ctx context.Context, ownerID, itemID uuid.UUID, req MarkSoldRequest) (*ItemResponse, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	soldAt := time.Now()
	if req.SoldAt != nil {
		soldAt, err = time.Parse(time.RFC3339, *req.SoldAt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "soldAt must be RFC 3339")
		}
	}

	if err := item.MarkSold(decimal.NewFromFloat(req.SellingPrice), req.Platform, soldAt); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// MarkUnsold reverts a recorded sale
func (s *ItemService) MarkUnsold(ctx context.Context, ownerID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.MarkUnsold(); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

func (s *ItemService) findOwned(ctx context.Context, ownerID, itemID uuid.UUID) (*inventory.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}
