package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/revendo/backend/internal/infrastructure/logger"
	"github.com/revendo/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	db    *persistence.Database
	redis *redis.Client
}

// NewSystemHandler creates a new system handler. The redis client may be
// nil when caching and token revocation run in-memory.
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client) *SystemHandler {
	return &SystemHandler{db: db, redis: redisClient}
}

// RegisterRoutes registers probe routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health reports liveness only; it never touches dependencies
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready reports whether the backing services answer
func (h *SystemHandler) Ready(c *gin.Context) {
	log := logger.GetGinLogger(c)
	status := http.StatusOK
	checks := gin.H{}

	if err := h.db.Ping(); err != nil {
		log.Warn("readiness check failed", zap.String("dependency", "database"), zap.Error(err))
		checks["database"] = "error"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			log.Warn("readiness check failed", zap.String("dependency", "redis"), zap.Error(err))
			checks["redis"] = "error"
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}

	c.JSON(status, gin.H{
		"status": state,
		"time":   time.Now().Format(time.RFC3339),
		"checks": checks,
	})
}
