package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentflow-mcp/internal/relay"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// ToolHandler routes a tool call through the relay. The content API's JSON
// is returned as-is; a status of 400 or above marks the result as an error
// but still carries that body.
func ToolHandler(r *relay.Relay, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := r.Invoke(ctx, name, req.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(resp.Body))},
			IsError: resp.Status >= http.StatusBadRequest,
		}, nil
	}
}

// ResourceHandler reads the resource at uri through the relay. Failures
// become JSON-RPC errors.
func ResourceHandler(r *relay.Relay, uri string) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		resp, err := r.InvokeURI(ctx, uri)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(resp.Body),
			},
		}, nil
	}
}
