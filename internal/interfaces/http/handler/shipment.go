package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/revendo/backend/internal/application/inventory"
	"github.com/revendo/backend/internal/infrastructure/cache"
	"github.com/revendo/backend/internal/infrastructure/logger"
	"github.com/revendo/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ShipmentHandler handles shipment HTTP requests
type ShipmentHandler struct {
	BaseHandler
	shipmentService *inventory.ShipmentService
	reportCache     cache.ReportCache
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(shipmentService *inventory.ShipmentService, reportCache cache.ReportCache) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
		reportCache:     reportCache,
	}
}

// RegisterRoutes registers shipment routes on the given group
func (h *ShipmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shipments := rg.Group("/shipments")
	{
		shipments.POST("", h.Create)
		shipments.GET("", h.List)
		shipments.GET("/:id", h.GetByID)
		shipments.PUT("/:id/status", h.UpdateStatus)
		shipments.DELETE("/:id", h.Delete)
	}
}

// Create registers a new shipment
func (h *ShipmentHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventory.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	shipment, err := h.shipmentService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, shipment)
}

// List returns the owner's shipments
func (h *ShipmentHandler) List(c *gin.Context) {
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

	shipments, err := h.shipmentService.List(c.Request.Context(), ownerID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shipments)
}

// GetByID returns a single shipment with its allocation summary
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	ownerID, shipmentID, ok := h.ownedShipmentID(c)
	if !ok {
		return
	}

	shipment, err := h.shipmentService.GetByID(c.Request.Context(), ownerID, shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shipment)
}

// UpdateStatus moves a shipment through its lifecycle
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	ownerID, shipmentID, ok := h.ownedShipmentID(c)
	if !ok {
		return
	}

	var req inventory.UpdateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	shipment, err := h.shipmentService.UpdateStatus(c.Request.Context(), ownerID, shipmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shipment)
}

// Delete removes an empty shipment
func (h *ShipmentHandler) Delete(c *gin.Context) {
	ownerID, shipmentID, ok := h.ownedShipmentID(c)
	if !ok {
		return
	}

	if err := h.shipmentService.Delete(c.Request.Context(), ownerID, shipmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	// Shipment cost feeds item shipping fallbacks, so cached
	// reports may be stale after a delete.
	if h.reportCache != nil {
		if err := h.reportCache.InvalidateOwner(c.Request.Context(), ownerID); err != nil {
			logger.FromContext(c.Request.Context()).Warn("report cache invalidation failed",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err))
		}
	}

	h.NoContent(c)
}

func (h *ShipmentHandler) ownedShipmentID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return uuid.Nil, uuid.Nil, false
	}

	shipmentID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, shipmentID, true
}
