package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cloo-solutions/techwiki/internal/api"
	"github.com/cloo-solutions/techwiki/internal/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if h.db == nil {
		resp.Database = "unconfigured"
		api.Success(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Warn("health check failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		api.Success(w, http.StatusServiceUnavailable, resp)
		return
	}
	api.Success(w, http.StatusOK, resp)
}
