package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/strataworks/layerd/api"
)

func (h *handlers) registerGroupTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_all_groups",
		mcp.WithDescription("List every group with its derived member layer ids."),
	), h.getAllGroups)

	s.AddTool(mcp.NewTool("get_group_by_id",
		mcp.WithDescription("Fetch a single group by identifier. Returns null when absent."),
		mcp.WithString("id", mcp.Required()),
	), h.getGroupByID)

	s.AddTool(mcp.NewTool("create_group",
		mcp.WithDescription("Create a group. The store assigns the identifier and timestamps."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("parentId", mcp.Description("Optional parent group")),
		mcp.WithNumber("order", mcp.Description("Display order")),
		mcp.WithBoolean("expanded"),
		mcp.WithString("color"),
		mcp.WithString("description"),
	), h.createGroup)

	s.AddTool(mcp.NewTool("update_group",
		mcp.WithDescription("Partially update a group. Fails when the group does not exist."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithObject("changes", mcp.Required(), mcp.Description("Sparse field set to apply")),
	), h.updateGroup)

	s.AddTool(mcp.NewTool("delete_group",
		mcp.WithDescription("Delete a group transactionally. With moveLayersTo, member layers are reassigned to that group; otherwise they are orphaned (group reference cleared). Member layers are never deleted."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("moveLayersTo", mcp.Description("Existing group to receive the member layers")),
	), h.deleteGroup)
}

func (h *handlers) getAllGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := h.store.GetAllGroups(ctx)
	if err != nil {
		return h.failure("get_all_groups", err)
	}
	return jsonResult(groups)
}

func (h *handlers) getGroupByID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group, err := h.store.GetGroupByID(ctx, id)
	if err != nil {
		return h.failure("get_group_by_id", err)
	}
	return jsonResult(group)
}

func (h *handlers) createGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var draft api.GroupDraft
	if err := req.BindArguments(&draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group, err := h.store.CreateGroup(ctx, draft)
	if err != nil {
		return h.failure("create_group", err)
	}
	return jsonResult(group)
}

func (h *handlers) updateGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID      string         `json:"id"`
		Changes api.GroupPatch `json:"changes"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group, err := h.store.UpdateGroup(ctx, args.ID, args.Changes)
	if err != nil {
		return h.failure("update_group", err)
	}
	return jsonResult(group)
}

func (h *handlers) deleteGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var moveTo *string
	if v := req.GetString("moveLayersTo", ""); v != "" {
		moveTo = &v
	}
	deleted, err := h.store.DeleteGroup(ctx, id, moveTo)
	if err != nil {
		return h.failure("delete_group", err)
	}
	return jsonResult(map[string]bool{"deleted": deleted})
}
