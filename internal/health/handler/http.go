package handler

import (
	"context"
	"net/http"
	"time"

	"gymgate/backend/internal/server/httpx"
)

// Pinger reports store reachability, e.g. *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves readiness/liveness for load balancers and CI.
type Handler struct {
	db Pinger
}

// NewHandler returns a health handler. db may be nil, in which case the store
// check is skipped.
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Healthz reports serving status. The store check uses a short timeout so a
// hung database does not hang the probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": err.Error()})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
