package api

import (
	"context"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

type storeHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// handleHealth reports "ok" when the asset store answers a ping and
// "degraded" (503) otherwise. Upstream APIs are not probed.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	start := time.Now()
	err := s.assets.Ping(ctx)
	store := storeHealth{Status: "connected", LatencyMS: time.Since(start).Milliseconds()}

	status, code := "ok", http.StatusOK
	if err != nil {
		store.Status, store.Error = "disconnected", err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
		s.logger.Warn("health check: store unreachable", "error", err)
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"store":     store,
	})
}
