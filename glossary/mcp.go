package glossary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/solstice-fi/lorebase/kit"
)

// RegisterMCP registers the glossary tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerTermTool(srv)
	s.registerListTool(srv)
	s.registerSearchTool(srv)
	s.registerTagTool(srv)
	s.registerTranslateTool(srv)
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

var categoryProp = map[string]any{
	"type":        "string",
	"description": "Optional category filter: \"concept\" or \"component\"",
}

type termReq struct {
	Title string `json:"title"`
}

func (s *Service) registerTermTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glossary_term",
		Description: "Look up one glossary term by title (case-insensitive).",
		InputSchema: inputSchema(map[string]any{
			"title": map[string]any{"type": "string", "description": "Term title"},
		}, []string{"title"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*termReq)
		term := s.Term(ctx, r.Title)
		if term == nil {
			return nil, fmt.Errorf("no glossary term titled %q", r.Title)
		}
		return term, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r termReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type listReq struct {
	Category string `json:"category"`
}

func (s *Service) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glossary_list",
		Description: "List glossary terms, optionally narrowed to one category.",
		InputSchema: inputSchema(map[string]any{"category": categoryProp}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listReq)
		terms := s.List(ctx, Category(r.Category))
		return map[string]any{"count": len(terms), "terms": terms}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r listReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type searchReq struct {
	Query string `json:"query"`
}

func (s *Service) registerSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glossary_search",
		Description: "Free-text search over glossary titles, tags, and summaries.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search terms"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*searchReq)
		results := s.Search(ctx, r.Query)
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

type tagReq struct {
	Tag      string `json:"tag"`
	Category string `json:"category"`
}

func (s *Service) registerTagTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glossary_tag",
		Description: "List glossary terms carrying a tag (substring, case-insensitive).",
		InputSchema: inputSchema(map[string]any{
			"tag":      map[string]any{"type": "string", "description": "Tag to match"},
			"category": categoryProp,
		}, []string{"tag"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*tagReq)
		terms := s.FilterByTag(ctx, r.Tag, Category(r.Category))
		return map[string]any{"tag": r.Tag, "count": len(terms), "terms": terms}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r tagReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (s *Service) registerTranslateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glossary_translate",
		Description: "Explain a glossary term in plain language, with related terms.",
		InputSchema: inputSchema(map[string]any{
			"title": map[string]any{"type": "string", "description": "Term title"},
		}, []string{"title"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*termReq)
		tr := s.Translate(ctx, r.Title)
		if tr == nil {
			return nil, fmt.Errorf("no glossary term titled %q", r.Title)
		}
		return tr, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r termReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (s *Service) registerRefreshTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "glossary_refresh",
		Description: "Force a live refresh of the glossary from its source databases.",
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
