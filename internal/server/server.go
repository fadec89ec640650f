// Package server hosts the MCP Streamable HTTP endpoint and the plain
// health, version and metrics routes on one chi router.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/contentflow-mcp/internal/app"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

// Server manages the HTTP server and routes.
type Server struct {
	app     *app.App
	router  chi.Router
	server  *http.Server
	logger  *common.Logger
	metrics *httpMetrics
}

// New creates a new HTTP server with the given app.
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		logger: application.Logger,
	}

	if application.Config.Metrics.Enabled && application.PromRegistry != nil {
		s.metrics = newHTTPMetrics(application.PromRegistry)
	}

	s.router = s.setupRoutes()

	// A tool call may hold the response open for the full downstream budget.
	writeTimeout := 30 * time.Second
	if application.Proxy != nil {
		writeTimeout += application.Proxy.Timeout()
	}

	s.server = &http.Server{
		Addr:         application.Config.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s/mcp", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server starting")

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
