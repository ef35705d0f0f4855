package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/utils"
	"github.com/go-chi/chi/v5"
)

// Pinger is a backing store the service depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	cache  Pinger
	router *chi.Mux
}

// NewHealthHandler checks the database and, when not nil, the cache.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	h := &HealthHandler{
		db:    db,
		cache: cache,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleHealthCheck)
	r.Get("/database", h.handleDatabaseHealth)

	h.router = r
	return h
}

func (h *HealthHandler) Router() *chi.Mux {
	return h.router
}

func check(ctx context.Context, p Pinger) map[string]any {
	if err := p.Ping(ctx); err != nil {
		return map[string]any{"status": "unhealthy", "error": err.Error()}
	}
	return map[string]any{"status": "healthy"}
}

// @Summary Health check
// @Description Pings the database and redis
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]any{"database": check(ctx, h.db)}
	if h.cache != nil {
		checks["redis"] = check(ctx, h.cache)
	}

	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if c.(map[string]any)["status"] != "healthy" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	utils.WriteJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   common.ServiceName,
		"checks":    checks,
	})
}

func (h *HealthHandler) handleDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	database := check(ctx, h.db)
	code := http.StatusOK
	if database["status"] != "healthy" {
		code = http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, code, map[string]any{
		"status":    database["status"],
		"timestamp": time.Now().UTC(),
		"database":  database,
	})
}
