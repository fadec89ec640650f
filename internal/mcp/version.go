package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
	"github.com/bobmcallan/contentflow-mcp/internal/relay"
)

// versionInfo holds version fields for this binary.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// apiStatus is reported when the content API health check fails.
type apiStatus struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the contentflow-mcp version and the content API health. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports this binary's version and the content API's
// /health payload. An unreachable API is reported, not treated as failure.
func VersionToolHandler(r *relay.Relay) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]any{
			"contentflow_mcp": versionInfo{
				Version: common.GetVersion(),
				Build:   common.GetBuild(),
				Commit:  common.GetGitCommit(),
			},
		}

		resp, err := r.Probe(ctx, "/health")
		switch {
		case err != nil:
			result["content_api"] = apiStatus{Status: "unreachable", Error: err.Error()}
		case resp.Status >= http.StatusBadRequest:
			result["content_api"] = apiStatus{Status: "unhealthy", Error: http.StatusText(resp.Status)}
		default:
			result["content_api"] = json.RawMessage(resp.Body)
		}

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
