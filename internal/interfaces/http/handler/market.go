package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/revendo/backend/internal/application/market"
)

// MarketHandler serves marketplace price analysis
type MarketHandler struct {
	BaseHandler
	analyzer *market.AnalyzerService
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(analyzer *market.AnalyzerService) *MarketHandler {
	return &MarketHandler{analyzer: analyzer}
}

// RegisterRoutes registers market analysis routes on the given group
func (h *MarketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/market")
	{
		group.POST("/analyze", h.Analyze)
		group.GET("/history", h.History)
	}
}

// analyzeRequest carries the search term and the caller's marketplace
// session token. The token never touches our own auth layer.
type analyzeRequest struct {
	SearchText  string `json:"searchText" binding:"required"`
	AccessToken string `json:"accessToken" binding:"required"`
}

// historyQuery selects past analyses for one search term
type historyQuery struct {
	Search string `form:"search" binding:"required"`
	Limit  int    `form:"limit,default=10"`
}

// Analyze fetches sold comparables and returns price statistics and KPIs
func (h *MarketHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), req.AccessToken, req.SearchText)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, analysis)
}

// History returns past analyses for a search term, newest first
func (h *MarketHandler) History(c *gin.Context) {
	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Missing search parameter")
		return
	}

	records, err := h.analyzer.History(c.Request.Context(), query.Search, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}
