package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports readiness of the stores the API cannot serve
// without: postgres (projects, tickets, users) and redis (token revocation
// list, mail queue). Object storage is deliberately left out; attachments
// degrade per-request instead of taking the whole service unhealthy.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{"postgres": "ok", "redis": "ok"}
	if err := h.pool.Ping(ctx); err != nil {
		checks["postgres"] = "down: " + err.Error()
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "down: " + err.Error()
	}

	body := healthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	for _, state := range checks {
		if state != "ok" {
			body.Status = "degraded"
			status = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, status, body)
}
