package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/api"
)

// parseTimeArg parses an optional RFC3339 argument; empty means absent.
func parseTimeArg(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalLayerID pulls the shared layerId filter argument.
func optionalLayerID(req mcp.CallToolRequest) *string {
	if v := req.GetString("layerId", ""); v != "" {
		return &v
	}
	return nil
}

func (h *handlers) registerTelemetryTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("log_operation",
		mcp.WithDescription("Append one audit record. The store never logs its own mutations; clients decide what is audit-worthy."),
		mcp.WithString("operation", mcp.Required()),
		mcp.WithString("layerId"),
		mcp.WithObject("details"),
		mcp.WithString("userId"),
	), h.logOperation)

	s.AddTool(mcp.NewTool("get_operations",
		mcp.WithDescription("Read the 100 most recent audit records, newest first, optionally filtered to one layer."),
		mcp.WithString("layerId"),
	), h.getOperations)

	s.AddTool(mcp.NewTool("log_error",
		mcp.WithDescription("Append one error record (unresolved)."),
		mcp.WithString("code", mcp.Required()),
		mcp.WithString("message", mcp.Required()),
		mcp.WithObject("details"),
		mcp.WithString("layerId"),
	), h.logError)

	s.AddTool(mcp.NewTool("get_errors",
		mcp.WithDescription("Read the 100 most recent unresolved errors, newest first."),
		mcp.WithString("layerId"),
	), h.getErrors)

	s.AddTool(mcp.NewTool("clear_errors",
		mcp.WithDescription("Mark matching unresolved errors resolved. History is kept; resolved records drop out of reads permanently."),
		mcp.WithString("layerId"),
	), h.clearErrors)

	s.AddTool(mcp.NewTool("record_performance_metrics",
		mcp.WithDescription("Append one load/render timing sample for a layer."),
		mcp.WithString("layerId", mcp.Required()),
		mcp.WithNumber("loadTimeMs", mcp.Required()),
		mcp.WithNumber("renderTimeMs", mcp.Required()),
		mcp.WithNumber("memoryMb"),
		mcp.WithNumber("featureCount"),
	), h.recordMetrics)

	s.AddTool(mcp.NewTool("get_performance_metrics",
		mcp.WithDescription("Read the 100 most recent metric samples, newest first."),
		mcp.WithString("layerId"),
	), h.getMetrics)
}

func (h *handlers) logOperation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var draft api.OperationDraft
	if err := req.BindArguments(&draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.LogOperation(ctx, draft); err != nil {
		return h.failure("log_operation", err)
	}
	return mcp.NewToolResultText("logged"), nil
}

func (h *handlers) getOperations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ops, err := h.store.GetOperations(ctx, optionalLayerID(req))
	if err != nil {
		return h.failure("get_operations", err)
	}
	return jsonResult(ops)
}

func (h *handlers) logError(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var draft api.ErrorDraft
	if err := req.BindArguments(&draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.LogError(ctx, draft); err != nil {
		return h.failure("log_error", err)
	}
	return mcp.NewToolResultText("logged"), nil
}

func (h *handlers) getErrors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	errs, err := h.store.GetErrors(ctx, optionalLayerID(req))
	if err != nil {
		return h.failure("get_errors", err)
	}
	return jsonResult(errs)
}

func (h *handlers) clearErrors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.store.ClearErrors(ctx, optionalLayerID(req)); err != nil {
		return h.failure("clear_errors", err)
	}
	return mcp.NewToolResultText("cleared"), nil
}

func (h *handlers) recordMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var draft api.MetricsDraft
	if err := req.BindArguments(&draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.RecordPerformanceMetrics(ctx, draft); err != nil {
		return h.failure("record_performance_metrics", err)
	}
	return mcp.NewToolResultText("recorded"), nil
}

func (h *handlers) getMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metrics, err := h.store.GetPerformanceMetrics(ctx, optionalLayerID(req))
	if err != nil {
		return h.failure("get_performance_metrics", err)
	}
	return jsonResult(metrics)
}
