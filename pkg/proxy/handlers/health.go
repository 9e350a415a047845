package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler serves liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ReadyHandler serves readiness probes: ready once at least one account is
// configured.
type ReadyHandler struct {
	pool AccountPool
}

// NewReadyHandler creates a readiness check handler.
func NewReadyHandler(p AccountPool) *ReadyHandler {
	return &ReadyHandler{pool: p}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.pool.Len() == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "no accounts configured"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
