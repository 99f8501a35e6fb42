package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/revendo/backend/internal/application/stats"
	"github.com/revendo/backend/internal/domain/inventory"
	"github.com/revendo/backend/internal/infrastructure/cache"
	"github.com/revendo/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStatsHandler() (*StatsHandler, *fakeItemRepo, *cache.InMemoryReportCache) {
	itemRepo := newFakeItemRepo()
	reportCache := cache.NewInMemoryReportCache(time.Minute)
	service := stats.NewStatsService(itemRepo, stats.NopObserver{}, zap.NewNop())
	return NewStatsHandler(service, reportCache), itemRepo, reportCache
}

func statsContext(t *testing.T, w *httptest.ResponseRecorder, ownerID uuid.UUID, target string) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	c.Set(middleware.JWTUserIDKey, ownerID.String())
	return c
}

func seedSoldItem(t *testing.T, repo *fakeItemRepo, ownerID uuid.UUID, price, sellingPrice float64) {
	t.Helper()

	item, err := inventory.NewItem(ownerID, "Sneakers", decimal.NewFromFloat(price), decimal.NewFromInt(300))
	require.NoError(t, err)
	item.MarkListed(time.Now().Add(-72 * time.Hour))
	require.NoError(t, item.MarkSold(decimal.NewFromFloat(sellingPrice), "vinted", time.Now().Add(-24*time.Hour)))
	repo.items[item.ID] = item
}

func TestStatsHandlerGetReport(t *testing.T) {
	handler, repo, _ := setupStatsHandler()
	ownerID := uuid.New()
	seedSoldItem(t, repo, ownerID, 10, 25)
	seedSoldItem(t, repo, ownerID, 8, 12)

	w := httptest.NewRecorder()
	c := statsContext(t, w, ownerID, "/stats?period=30d&group_by=day")

	handler.GetReport(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stats.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30d", resp.Data.Period)
	assert.Equal(t, int64(2), resp.Data.Overview.SoldItems)
	assert.InDelta(t, 37, resp.Data.Overview.Revenue, 0.001)
}

func TestStatsHandlerGetReportDefaults(t *testing.T) {
	handler, _, _ := setupStatsHandler()

	w := httptest.NewRecorder()
	c := statsContext(t, w, uuid.New(), "/stats")

	handler.GetReport(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stats.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30d", resp.Data.Period)
	assert.Equal(t, "day", resp.Data.GroupBy)
}

func TestStatsHandlerGetReportUnauthenticated(t *testing.T) {
	handler, _, _ := setupStatsHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/stats", nil)

	handler.GetReport(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatsHandlerServesCachedReport(t *testing.T) {
	handler, repo, reportCache := setupStatsHandler()
	ownerID := uuid.New()
	seedSoldItem(t, repo, ownerID, 10, 25)

	// First request populates the cache.
	w := httptest.NewRecorder()
	handler.GetReport(statsContext(t, w, ownerID, "/stats?period=7d&group_by=week"))
	require.Equal(t, http.StatusOK, w.Code)

	cached, err := reportCache.Get(context.Background(), ownerID, "7d", "week")
	require.NoError(t, err)
	require.NotNil(t, cached)

	// Second request is served from the cache even if the repo changes.
	seedSoldItem(t, repo, ownerID, 10, 100)

	w = httptest.NewRecorder()
	handler.GetReport(statsContext(t, w, ownerID, "/stats?period=7d&group_by=week"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stats.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Overview.SoldItems)
}
