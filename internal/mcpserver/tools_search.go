package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/api"
)

func (h *handlers) registerSearchTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("search_layers",
		mcp.WithDescription("Search layers with AND-composed filters: free text (name or metadata description, case-insensitive), type, creator, group, creation-time range."),
		mcp.WithString("query"),
		mcp.WithString("type", mcp.Enum("raster", "vector")),
		mcp.WithString("createdBy"),
		mcp.WithString("groupId"),
		mcp.WithString("from", mcp.Description("RFC3339 inclusive lower bound on createdAt")),
		mcp.WithString("to", mcp.Description("RFC3339 inclusive upper bound on createdAt")),
	), h.searchLayers)
}

func (h *handlers) searchLayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query     string  `json:"query"`
		Type      string  `json:"type"`
		CreatedBy string  `json:"createdBy"`
		GroupID   *string `json:"groupId"`
		From      string  `json:"from"`
		To        string  `json:"to"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	criteria := api.SearchCriteria{
		Query:     args.Query,
		Type:      api.LayerType(args.Type),
		CreatedBy: args.CreatedBy,
		GroupID:   args.GroupID,
	}
	var err error
	if criteria.From, err = parseTimeArg(args.From); err != nil {
		return mcp.NewToolResultError("from: " + err.Error()), nil
	}
	if criteria.To, err = parseTimeArg(args.To); err != nil {
		return mcp.NewToolResultError("to: " + err.Error()), nil
	}

	result, err := h.store.SearchLayers(ctx, criteria)
	if err != nil {
		return h.failure("search_layers", err)
	}
	return jsonResult(result)
}
