package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/relay"
)

const upstreamProbeTimeout = 3 * time.Second

// UpstreamHealthHandler checks the content API through the relay's client.
type UpstreamHealthHandler struct {
	logger *common.Logger
	relay  *relay.Relay
}

// NewUpstreamHealthHandler creates a new upstream health handler.
func NewUpstreamHealthHandler(logger *common.Logger, r *relay.Relay) *UpstreamHealthHandler {
	return &UpstreamHealthHandler{logger: logger, relay: r}
}

// ServeHTTP handles GET /api/upstream-health.
func (h *UpstreamHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamProbeTimeout)
	defer cancel()

	body := map[string]any{"api_url": h.relay.BaseURL()}

	resp, err := h.relay.Probe(ctx, "/health")
	if err != nil {
		h.logger.Warn().Err(err).Msg("content API health probe failed")
		body["status"] = "down"
		body["kind"] = string(relay.KindOf(err))
		WriteJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	body["upstream_status"] = resp.Status
	if resp.Status >= http.StatusBadRequest {
		body["status"] = "down"
		WriteJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "ok"
	WriteJSON(w, http.StatusOK, body)
}
