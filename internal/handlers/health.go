package handlers

import (
	"net/http"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

// HealthHandler reports liveness of this process only. It never calls the
// content API; see UpstreamHealthHandler for that.
type HealthHandler struct {
	logger *common.Logger
	name   string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, name string) *HealthHandler {
	return &HealthHandler{logger: logger, name: name}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.name,
	})
}
