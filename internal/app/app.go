package app

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/config"
	"github.com/bobmcallan/contentflow-mcp/internal/handlers"
	"github.com/bobmcallan/contentflow-mcp/internal/mcp"
	"github.com/bobmcallan/contentflow-mcp/internal/relay"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Registry     *catalog.Registry
	Proxy        *relay.Proxy
	Relay        *relay.Relay
	Metrics      *relay.Metrics
	PromRegistry *prometheus.Registry
	MCPServer    *mcpserver.MCPServer

	// HTTP handlers
	HealthHandler         *handlers.HealthHandler
	VersionHandler        *handlers.VersionHandler
	UpstreamHealthHandler *handlers.UpstreamHealthHandler
	OpenAPIHandler        *handlers.OpenAPIHandler
	MCPHandler            *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: catalog.Default(),
	}

	a.PromRegistry = prometheus.NewRegistry()
	a.PromRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = relay.InitMetrics(a.PromRegistry)

	a.Proxy = relay.NewProxy(cfg.API, logger)
	a.Relay = relay.New(a.Registry, a.Proxy, cfg.API.BaseURL(), logger, a.Metrics)
	a.MCPServer = mcp.NewServer(cfg.Server.Name, a.Relay, logger)

	a.initHandlers()

	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("api_url", cfg.API.BaseURL()).
		Str("timeout", a.Proxy.Timeout().String()).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Config.Server.Name)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.UpstreamHealthHandler = handlers.NewUpstreamHealthHandler(a.Logger, a.Relay)
	a.OpenAPIHandler = handlers.NewOpenAPIHandler(a.Logger, a.Registry, a.Config.API.BaseURL())
	a.MCPHandler = mcp.NewHandler(a.MCPServer, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Proxy != nil {
		a.Proxy.Close()
	}
	return nil
}
