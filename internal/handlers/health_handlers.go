package handlers

import (
	"net/http"
	"time"

	"commercehub/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	pool     *pgxpool.Pool
	cacheSvc caching.CacheService
}

func NewHealthHandlers(pool *pgxpool.Pool, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{pool: pool, cacheSvc: cacheSvc}
}

// Health handles GET /health: liveness only.
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready: readiness including the database and cache.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	checks := map[string]string{"database": "ok", "cache": "ok"}
	status := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, checks)
}
