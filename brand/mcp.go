package brand

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/solstice-fi/lorebase/kit"
)

// RegisterMCP registers the brand tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerOverviewTool(srv)
	s.registerSectionTool(srv)
	s.registerSearchTool(srv)
	s.registerRefreshTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (s *Service) registerOverviewTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "brand_overview",
		Description: "List the sections of the brand and style guide.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Overview(ctx), nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type sectionReq struct {
	ID string `json:"id"`
}

func (s *Service) registerSectionTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "brand_section",
		Description: "Fetch one brand guide section by id (e.g. \"2\") or subsection (e.g. \"2.1\").",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Section or subsection id"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*sectionReq)
		sec, sub := s.Lookup(ctx, r.ID)
		switch {
		case sec != nil:
			return sec, nil
		case sub != nil:
			return sub, nil
		default:
			return nil, fmt.Errorf("no section or subsection with id %q", r.ID)
		}
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r sectionReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type searchReq struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (s *Service) registerSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "brand_search",
		Description: "Free-text search over the brand guide; returns ranked sections with snippets.",
		InputSchema: inputSchema(map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search terms"},
			"max_results": map[string]any{"type": "integer", "description": "Result cap (default 5)"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*searchReq)
		results := s.Search(ctx, r.Query, r.MaxResults)
		return map[string]any{"query": r.Query, "results": results}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r searchReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (s *Service) registerRefreshTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "brand_refresh",
		Description: "Force a live refresh of the brand guide from the content source.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Refresh(ctx), nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
