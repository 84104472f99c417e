package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Lelo88/ledger-api-golang/internal/httpx"
)

// readyTimeout acota cuánto espera /ready al store.
const readyTimeout = 2 * time.Second

// Pinger es lo que /ready necesita del store (Postgres o SQLite).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints operativos: liveness (/health) y readiness (/ready).
type Handler struct {
	store Pinger
	now   func() time.Time
}

// New crea un handler de health. store puede ser nil: /ready responde 503.
func New(store Pinger) *Handler {
	return &Handler{store: store, now: time.Now}
}

// Health indica si el proceso está vivo. No toca el store.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   handler.now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si el store responde; lo usan los orquestadores antes de mandar tráfico.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.store == nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "store not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := handler.store.Ping(ctx); err != nil {
		httpx.Fail(w, r, http.StatusServiceUnavailable, "not_ready", "store is not reachable")
		return
	}

	httpx.OK(w, r, http.StatusOK, map[string]any{"status": "ready"})
}
