package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/api"
	"github.com/strataworks/layerd/internal/store"
)

func (h *handlers) registerTransferTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("bulk_update_layers",
		mcp.WithDescription("Apply per-layer patches in one transaction. Any failure rolls back the whole batch."),
		mcp.WithArray("updates", mcp.Required()),
	), h.bulkUpdateLayers)

	s.AddTool(mcp.NewTool("export_layers",
		mcp.WithDescription("Serialize the named layers plus their directly owning groups into a portable JSON document. Unknown ids are skipped."),
		mcp.WithArray("layerIds", mcp.Required()),
	), h.exportLayers)

	s.AddTool(mcp.NewTool("import_layers",
		mcp.WithDescription("Import a previously exported document. Every layer and group is minted a fresh identity; targetGroupId overrides group placement."),
		mcp.WithString("document", mcp.Required()),
		mcp.WithString("targetGroupId"),
	), h.importLayers)
}

func (h *handlers) bulkUpdateLayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Updates []api.BulkLayerChange `json:"updates"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	layers, err := h.store.BulkUpdateLayers(ctx, args.Updates)
	if err != nil {
		return h.failure("bulk_update_layers", err)
	}
	return jsonResult(layers)
}

func (h *handlers) exportLayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		LayerIDs []string `json:"layerIds"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := h.store.ExportLayers(ctx, args.LayerIDs)
	if err != nil {
		return h.failure("export_layers", err)
	}
	raw, err := store.EncodeExportDocument(doc)
	if err != nil {
		return h.failure("export_layers", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (h *handlers) importLayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := store.ParseExportDocument([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var target *string
	if v := req.GetString("targetGroupId", ""); v != "" {
		target = &v
	}
	ids, err := h.store.ImportLayers(ctx, doc, target)
	if err != nil {
		return h.failure("import_layers", err)
	}
	return jsonResult(map[string]any{"importedLayerIds": ids})
}
