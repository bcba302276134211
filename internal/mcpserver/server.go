// Package mcpserver exposes the layer store's operation surface as MCP
// tools over stdio. Each tool is a thin shim: decode JSON arguments, call
// the store, encode the result. No policy lives here — the store owns the
// semantics, and audit logging stays a separate tool the client invokes
// when it wants a record.
package mcpserver

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/internal/store"
	"go.uber.org/zap"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// handlers binds every tool to one store.
type handlers struct {
	store *store.Store
	log   *zap.Logger
}

// New builds the MCP server with the full tool set registered.
func New(name string, st *store.Store, log *zap.Logger) *server.MCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handlers{store: st, log: log}

	s := server.NewMCPServer(name, Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	h.registerLayerTools(s)
	h.registerGroupTools(s)
	h.registerSearchTools(s)
	h.registerPresetTools(s)
	h.registerTelemetryTools(s)
	h.registerTransferTools(s)

	return s
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects. All logging must already be routed to stderr.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// jsonResult encodes v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// failure reports a store error as a tool error, keeping the protocol
// channel clean for transport-level problems only.
func (h *handlers) failure(tool string, err error) (*mcp.CallToolResult, error) {
	h.log.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
	return mcp.NewToolResultError(err.Error()), nil
}
