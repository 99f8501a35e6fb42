package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/revendo/backend/internal/application/inventory"
	"github.com/revendo/backend/internal/infrastructure/cache"
	"github.com/revendo/backend/internal/infrastructure/logger"
	"github.com/revendo/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ItemHandler handles inventory item HTTP requests
type ItemHandler struct {
	BaseHandler
	itemService *inventory.ItemService
	reportCache cache.ReportCache
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *inventory.ItemService, reportCache cache.ReportCache) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		reportCache: reportCache,
	}
}

// RegisterRoutes registers item routes on the given group
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.GetByID)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
		items.POST("/:id/list", h.MarkListed)
		items.POST("/:id/sell", h.MarkSold)
		items.POST("/:id/unsell", h.MarkUnsold)
	}
}

// markListedRequest records the listing timestamp, defaulting to now
type markListedRequest struct {
	ListedAt *time.Time `json:"listedAt"`
}

// Create adds a new item to the inventory
func (h *ItemHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateReports(c, ownerID)
	h.Created(c, item)
}

// List returns the owner's items with pagination and filters
func (h *ItemHandler) List(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.itemService.List(c.Request.Context(), ownerID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// GetByID returns a single item
func (h *ItemHandler) GetByID(c *gin.Context) {
	ownerID, itemID, ok := h.ownedItemID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Update changes an item's descriptive fields
func (h *ItemHandler) Update(c *gin.Context) {
	ownerID, itemID, ok := h.ownedItemID(c)
	if !ok {
		return
	}

	var req inventory.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), ownerID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateReports(c, ownerID)
	h.Success(c, item)
}

// Delete removes an item
func (h *ItemHandler) Delete(c *gin.Context) {
	ownerID, itemID, ok := h.ownedItemID(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), ownerID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateReports(c, ownerID)
	h.NoContent(c)
}

// MarkListed records that an item went up for sale
func (h *ItemHandler) MarkListed(c *gin.Context) {
	ownerID, itemID, ok := h.ownedItemID(c)
	if !ok {
		return
	}

	// Body is optional; an absent body means "listed now".
	var req markListedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body")
		return
	}

	at := time.Now().UTC()
	if req.ListedAt != nil {
		at = *req.ListedAt
	}

	item, err := h.itemService.MarkListed(c.Request.Context(), ownerID, itemID, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateReports(c, ownerID)
	h.Success(c, item)
}

// MarkSold records a sale
func (h *ItemHandler) MarkSold(c *gin.Context) {
	ownerID, itemID, ok := h.ownedItemID(c)
	if !ok {
		return
	}

	var req inventory.MarkSoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.MarkSold(c.Request.Context(), ownerID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateReports(c, ownerID)
	h.Success(c, item)
}

// MarkUnsold reverts a recorded sale
func (h *ItemHandler) MarkUnsold(c *gin.Context) {
	ownerID, itemID, ok := h.ownedItemID(c)
	if !ok {
		return
	}

	item, err := h.itemService.MarkUnsold(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateReports(c, ownerID)
	h.Success(c, item)
}

func (h *ItemHandler) ownedItemID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid item ID")
		return uuid.Nil, uuid.Nil, false
	}

	itemID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, itemID, true
}

// invalidateReports drops the owner's cached reports after inventory writes.
// Cache failures are logged, not surfaced; the write already succeeded.
func (h *ItemHandler) invalidateReports(c *gin.Context, ownerID uuid.UUID) {
	if h.reportCache == nil {
		return
	}
	if err := h.reportCache.InvalidateOwner(c.Request.Context(), ownerID); err != nil {
		logger.FromContext(c.Request.Context()).Warn("report cache invalidation failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}
}
