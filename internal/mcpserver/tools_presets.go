package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/api"
)

func (h *handlers) registerPresetTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_all_style_presets",
		mcp.WithDescription("List every style preset, built-ins first, then alphabetical by name."),
	), h.getAllStylePresets)

	s.AddTool(mcp.NewTool("create_style_preset",
		mcp.WithDescription("Save a reusable style preset. Presets created this way are never built-in."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("layerType", mcp.Required(), mcp.Enum("raster", "vector")),
		mcp.WithString("geometryType", mcp.Enum("point", "line", "polygon")),
		mcp.WithObject("style", mcp.Required()),
		mcp.WithArray("tags"),
		mcp.WithString("preview"),
	), h.createStylePreset)

	s.AddTool(mcp.NewTool("delete_style_preset",
		mcp.WithDescription("Delete a user-created preset. Built-in presets are refused."),
		mcp.WithString("id", mcp.Required()),
	), h.deleteStylePreset)
}

func (h *handlers) getAllStylePresets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	presets, err := h.store.GetAllStylePresets(ctx)
	if err != nil {
		return h.failure("get_all_style_presets", err)
	}
	return jsonResult(presets)
}

func (h *handlers) createStylePreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var draft api.StylePresetDraft
	if err := req.BindArguments(&draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	preset, err := h.store.CreateStylePreset(ctx, draft)
	if err != nil {
		return h.failure("create_style_preset", err)
	}
	return jsonResult(preset)
}

func (h *handlers) deleteStylePreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ok, err := h.store.DeleteStylePreset(ctx, id)
	if err != nil {
		return h.failure("delete_style_preset", err)
	}
	if !ok {
		return mcp.NewToolResultError("preset not found or built-in: " + id), nil
	}
	return mcp.NewToolResultText("deleted"), nil
}
