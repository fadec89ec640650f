package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/contentflow-mcp/internal/app"
	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/config"
	"github.com/bobmcallan/contentflow-mcp/internal/mcp"
	"github.com/bobmcallan/contentflow-mcp/internal/server"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	transport string
	host      string
	port      int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Starts the MCP server on stdio (for desktop MCP clients) or on Streamable
HTTP at /mcp. Stdout carries only protocol traffic in stdio mode; logs go to
stderr and the configured log file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, files, err := root.load()
			if err != nil {
				return err
			}

			config.ApplyFlagOverrides(cfg, opts.transport, opts.host, opts.port)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := common.NewLoggerFromConfig(cfg.Logging)
			logger.Info().
				Str("transport", cfg.Server.Transport).
				Str("api_url", cfg.API.BaseURL()).
				Strs("config_files", files).
				Msg("configuration loaded")

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to initialize application")
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Server.Transport == config.TransportStdio {
				return runStdio(ctx, application)
			}
			return runHTTP(ctx, application)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport: stdio or http (overrides config)")
	cmd.Flags().StringVar(&opts.host, "host", "", "HTTP host (overrides config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "HTTP port (overrides config)")

	return cmd
}

func runStdio(ctx context.Context, application *app.App) error {
	application.Logger.Info().Msg("serving MCP on stdio")

	err := mcp.ServeStdio(ctx, application.MCPServer, os.Stdin, os.Stdout, os.Stderr)
	if err != nil && ctx.Err() == nil {
		application.Logger.Error().Err(err).Msg("stdio server failed")
		return fmt.Errorf("stdio server: %w", err)
	}

	application.Logger.Info().Msg("stdio server stopped")
	return nil
}

func runHTTP(ctx context.Context, application *app.App) error {
	srv := server.New(application)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			application.Logger.Error().Err(err).Msg("server failed to start")
		}
		return err
	case <-ctx.Done():
		application.Logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}

	application.Logger.Info().Msg("server stopped")
	return nil
}
