package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

// OpenAPIHandler serves the content API contract derived from the catalog.
// The document is built on first request and reused.
type OpenAPIHandler struct {
	logger   *common.Logger
	registry *catalog.Registry
	baseURL  string

	once sync.Once
	doc  []byte
	err  error
}

// NewOpenAPIHandler creates a new OpenAPI document handler.
func NewOpenAPIHandler(logger *common.Logger, registry *catalog.Registry, baseURL string) *OpenAPIHandler {
	return &OpenAPIHandler{logger: logger, registry: registry, baseURL: baseURL}
}

// ServeHTTP handles GET /api/openapi.json.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	h.once.Do(func() {
		doc, err := catalog.OpenAPI(h.registry, h.baseURL, common.GetVersion())
		if err != nil {
			h.err = err
			return
		}
		h.doc, h.err = json.Marshal(doc)
	})

	if h.err != nil {
		h.logger.Error().Err(h.err).Msg("failed to build OpenAPI document")
		WriteError(w, http.StatusInternalServerError, "failed to build OpenAPI document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(h.doc)
}
