package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/notewell/notewell/internal/cache"
	"github.com/notewell/notewell/internal/providers/llm"
)

// statsReporter is satisfied by providers that track request statistics.
type statsReporter interface {
	Stats() llm.StatsSnapshot
}

type HealthHandler struct {
	db     *gorm.DB
	rdb    *redis.Client
	llm    llm.Provider
	memory *cache.Memory
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, provider llm.Provider, memory *cache.Memory) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, llm: provider, memory: memory}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := gin.H{}
	healthy := true

	if h.db != nil {
		dbStatus := "up"
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "down"
			healthy = false
		}
		components["database"] = dbStatus
	}

	if h.rdb != nil {
		redisStatus := "up"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
			healthy = false
		}
		components["redis"] = redisStatus
	}

	if h.memory != nil {
		components["analysis_cache"] = gin.H{
			"entries":  h.memory.Len(),
			"capacity": h.memory.Cap(),
		}
	}

	if h.llm != nil {
		model := gin.H{"connected": h.llm.CheckConnection(ctx)}
		if sr, ok := h.llm.(statsReporter); ok {
			model["stats"] = sr.Stats()
		}
		components["llm"] = model
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
