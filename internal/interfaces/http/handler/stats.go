package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/revendo/backend/internal/application/stats"
	"github.com/revendo/backend/internal/infrastructure/cache"
	"github.com/revendo/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StatsHandler serves the aggregated sales report
type StatsHandler struct {
	BaseHandler
	statsService *stats.StatsService
	reportCache  cache.ReportCache
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.StatsService, reportCache cache.ReportCache) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		reportCache:  reportCache,
	}
}

// RegisterRoutes registers stats routes on the given group
func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetReport)
}

// statsQuery carries the report parameters. Unknown period or grouping
// tokens fall back to their defaults inside the service.
type statsQuery struct {
	Period  string `form:"period,default=30d"`
	GroupBy string `form:"group_by,default=day"`
}

// GetReport builds the full sales report for the authenticated owner
func (h *StatsHandler) GetReport(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query statsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	if h.reportCache != nil {
		cached, err := h.reportCache.Get(ctx, ownerID, query.Period, query.GroupBy)
		if err != nil {
			log.Warn("report cache lookup failed", zap.Error(err))
		} else if cached != nil {
			h.Success(c, cached)
			return
		}
	}

	report, err := h.statsService.GenerateReport(ctx, ownerID, query.Period, query.GroupBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.reportCache != nil {
		if err := h.reportCache.Set(ctx, ownerID, query.Period, query.GroupBy, report); err != nil {
			log.Warn("report cache store failed", zap.Error(err))
		}
	}

	h.Success(c, report)
}
