package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/api"
)

func (h *handlers) registerLayerTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_all_layers",
		mcp.WithDescription("List every layer in draw-stack order (zIndex descending)."),
	), h.getAllLayers)

	s.AddTool(mcp.NewTool("get_layer_by_id",
		mcp.WithDescription("Fetch a single layer by identifier. Returns null when absent."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Layer identifier")),
	), h.getLayerByID)

	s.AddTool(mcp.NewTool("get_layers_by_type",
		mcp.WithDescription("List layers of one type."),
		mcp.WithString("type", mcp.Required(), mcp.Enum("raster", "vector")),
	), h.getLayersByType)

	s.AddTool(mcp.NewTool("get_layers_by_group",
		mcp.WithDescription("List the layers in a group. Omit groupId for ungrouped layers (not all layers)."),
		mcp.WithString("groupId", mcp.Description("Group identifier; omit for ungrouped")),
	), h.getLayersByGroup)

	s.AddTool(mcp.NewTool("create_layer",
		mcp.WithDescription("Create a layer. The store assigns the identifier and timestamps."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("type", mcp.Required(), mcp.Enum("raster", "vector")),
		mcp.WithString("sourceId", mcp.Required()),
		mcp.WithObject("sourceConfig", mcp.Description("Opaque source configuration document")),
		mcp.WithObject("styleConfig", mcp.Description("Opaque style configuration document")),
		mcp.WithBoolean("visible"),
		mcp.WithNumber("opacity", mcp.Description("0 to 1")),
		mcp.WithNumber("zIndex", mcp.Description("Higher draws on top")),
		mcp.WithObject("metadata"),
		mcp.WithString("groupId"),
		mcp.WithBoolean("locked"),
		mcp.WithString("createdBy"),
	), h.createLayer)

	s.AddTool(mcp.NewTool("update_layer",
		mcp.WithDescription("Partially update a layer. Only provided fields change; an explicit null clears a nullable field. Fails when the layer does not exist."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithObject("changes", mcp.Required(), mcp.Description("Sparse field set to apply")),
	), h.updateLayer)

	s.AddTool(mcp.NewTool("delete_layer",
		mcp.WithDescription("Hard-delete a layer. Reports whether a row was removed."),
		mcp.WithString("id", mcp.Required()),
	), h.deleteLayer)
}

func (h *handlers) getAllLayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	layers, err := h.store.GetAllLayers(ctx)
	if err != nil {
		return h.failure("get_all_layers", err)
	}
	return jsonResult(layers)
}

func (h *handlers) getLayerByID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layer, err := h.store.GetLayerByID(ctx, id)
	if err != nil {
		return h.failure("get_layer_by_id", err)
	}
	return jsonResult(layer)
}

func (h *handlers) getLayersByType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layers, err := h.store.GetLayersByType(ctx, api.LayerType(t))
	if err != nil {
		return h.failure("get_layers_by_type", err)
	}
	return jsonResult(layers)
}

func (h *handlers) getLayersByGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var groupID *string
	if v := req.GetString("groupId", ""); v != "" {
		groupID = &v
	}
	layers, err := h.store.GetLayersByGroup(ctx, groupID)
	if err != nil {
		return h.failure("get_layers_by_group", err)
	}
	return jsonResult(layers)
}

func (h *handlers) createLayer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var draft api.LayerDraft
	if err := req.BindArguments(&draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layer, err := h.store.CreateLayer(ctx, draft)
	if err != nil {
		return h.failure("create_layer", err)
	}
	return jsonResult(layer)
}

func (h *handlers) updateLayer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID      string         `json:"id"`
		Changes api.LayerPatch `json:"changes"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layer, err := h.store.UpdateLayer(ctx, args.ID, args.Changes)
	if err != nil {
		return h.failure("update_layer", err)
	}
	return jsonResult(layer)
}

func (h *handlers) deleteLayer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deleted, err := h.store.DeleteLayer(ctx, id)
	if err != nil {
		return h.failure("delete_layer", err)
	}
	return jsonResult(map[string]bool{"deleted": deleted})
}
