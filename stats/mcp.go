package stats

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/solstice-fi/lorebase/kit"
)

// RegisterMCP registers the stats tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerOverviewTool(srv)
	s.registerRefreshTool(srv)
}

func emptySchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (s *Service) registerOverviewTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "stats_overview",
		Description: "Current protocol statistics: networks, partners, token supply, money market, recent orders.",
		InputSchema: emptySchema(),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Overview(ctx), nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (s *Service) registerRefreshTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "stats_refresh",
		Description: "Force a live refresh of the protocol statistics.",
		InputSchema: emptySchema(),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Refresh(ctx), nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
