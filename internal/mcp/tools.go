package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
	"github.com/bobmcallan/contentflow-mcp/internal/relay"
)

// RegisterCatalog adds every catalog tool and resource to s, each backed by
// the relay. It returns the number of tools and resources registered.
func RegisterCatalog(s *server.MCPServer, r *relay.Relay) (tools, resources int) {
	reg := r.Registry()
	for _, spec := range reg.Tools() {
		s.AddTool(BuildTool(spec), ToolHandler(r, spec.Name))
		tools++
	}
	for _, spec := range reg.Resources() {
		s.AddResource(BuildResource(spec), ResourceHandler(r, spec.URI))
		resources++
	}
	return tools, resources
}

// BuildTool converts an operation spec into an mcp.Tool whose input schema
// lists every declared parameter with its default.
func BuildTool(spec catalog.OperationSpec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(spec.Name, opts...)
}

// BuildResource converts a resource spec into an mcp.Resource.
func BuildResource(spec catalog.OperationSpec) mcp.Resource {
	return mcp.NewResource(spec.URI, spec.Name,
		mcp.WithResourceDescription(spec.Description),
		mcp.WithMIMEType("application/json"),
	)
}

// buildParamOption maps a catalog parameter to the matching mcp-go option.
func buildParamOption(p catalog.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case catalog.TypeInteger, catalog.TypeNumber:
		if n, ok := numericDefault(p.Default); ok {
			opts = append(opts, mcp.DefaultNumber(n))
		}
		return mcp.WithNumber(p.Name, opts...)
	case catalog.TypeBoolean:
		if b, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Name, opts...)
	case catalog.TypeStringArray:
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	default:
		if s, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		if len(p.Enum) > 0 {
			opts = append(opts, mcp.Enum(p.Enum...))
		}
		return mcp.WithString(p.Name, opts...)
	}
}

func numericDefault(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
