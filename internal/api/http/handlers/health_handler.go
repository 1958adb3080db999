package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chamadopetro/chamado-service/internal/observability"
	"github.com/chamadopetro/chamado-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	metrics  *observability.Metrics
}

// NewHealthHandler constructs handler.
func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis, metrics: metrics}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready. Pings the backing stores.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	healthy := true

	if h.postgres != nil {
		if err := h.postgres.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"status": statusLabel(healthy), "checks": checks})
}

// Stats GET /health/metrics. Request and error counters.
func (h *HealthHandler) Stats(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"requests": requests, "errors": errors})
}

func statusLabel(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "degraded"
}
