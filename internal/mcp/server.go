// Package mcp exposes the operation catalog over the Model Context Protocol.
package mcp

import (
	"context"
	"io"
	"log"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/relay"
)

// NewServer creates the MCP server with every catalog tool and resource plus
// the local get_version tool.
func NewServer(name string, r *relay.Relay, logger *common.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		name,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithRecovery(),
	)

	tools, resources := RegisterCatalog(s, r)
	s.AddTool(VersionTool(), VersionToolHandler(r))

	logger.Info().
		Int("tools", tools+1).
		Int("resources", resources).
		Str("api_url", r.BaseURL()).
		Msg("MCP server initialized")

	return s
}

// ServeStdio serves s over stdin and stdout until ctx is done or stdin is
// closed. Protocol errors are written to errOut, never to stdout.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer, in io.Reader, out io.Writer, errOut io.Writer) error {
	stdio := mcpserver.NewStdioServer(s)
	stdio.SetErrorLogger(log.New(errOut, "", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}
