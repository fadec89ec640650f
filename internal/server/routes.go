package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxRequestBody caps inbound JSON-RPC bodies.
const maxRequestBody = 4 << 20

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	// First registered runs first.
	r.Use(s.correlationIDMiddleware)
	r.Use(s.loggingMiddleware)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
	}
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.maxBodySizeMiddleware(maxRequestBody))
	r.Use(s.recoveryMiddleware)

	// MCP endpoint (Streamable HTTP)
	if s.app.MCPHandler != nil {
		r.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes. Handlers enforce their own methods.
	r.Handle("/api/health", s.app.HealthHandler)
	r.Handle("/api/version", s.app.VersionHandler)
	r.Handle("/api/upstream-health", s.app.UpstreamHealthHandler)
	r.Handle("/api/openapi.json", s.app.OpenAPIHandler)

	if s.metrics != nil {
		path := s.app.Config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.HandlerFor(s.app.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	return r
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"Method Not Allowed"}`))
}
