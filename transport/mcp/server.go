package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quadparty/lobbyd/lobby/service"
)

// Admin wraps an MCP server exposing read-only lobby inspection tools.
type Admin struct {
	service   service.LobbyService
	mcpServer *server.MCPServer
}

// NewAdmin creates the MCP admin surface over the given lobby service.
func NewAdmin(lobbyService service.LobbyService, version string) *Admin {
	a := &Admin{service: lobbyService}

	a.mcpServer = server.NewMCPServer(
		"Lobby Server Admin",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Lobby Server - MCP Admin Interface

Read-only inspection of the matchmaking coordinator's live state.

AVAILABLE TOOLS:
- list_sessions: List every live session with its state and players
- get_session: Inspect one session, including collected scores
- server_stats: Aggregate counters for the session store

Sessions move Filling -> Full (scoring) -> Closed. Closed sessions are
removed immediately, so they never appear here.`),
	)

	a.registerTools()
	return a
}

// Server returns the underlying MCP server for mounting.
func (a *Admin) Server() *server.MCPServer {
	return a.mcpServer
}

// registerTools registers all MCP tools.
func (a *Admin) registerTools() {
	a.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live lobby sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, a.handleListSessions)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, a.handleGetSession)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get aggregate counters for the session store",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, a.handleServerStats)
}

// Tool handlers

func (a *Admin) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := a.service.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Live Sessions (%d):\n\n", len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(&b, "- %s [%s] players=%s scores=%d created=%s\n",
			s.ID, s.State, strings.Join(s.Players, ","), len(s.Scores),
			s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (a *Admin) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	info, err := a.service.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s\n", info.ID)
	fmt.Fprintf(&b, "State: %s\n", info.State)
	fmt.Fprintf(&b, "Created: %s\n", info.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&b, "Players (%d): %s\n", len(info.Players), strings.Join(info.Players, ", "))
	fmt.Fprintf(&b, "Disconnected: %d\n", info.Disconnected)
	fmt.Fprintf(&b, "Scores (%d):\n", len(info.Scores))
	for _, e := range info.Scores {
		fmt.Fprintf(&b, "  %s: %d\n", e.Name, e.Score)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (a *Admin) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := a.service.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf(
		"Sessions: %d/%d\nFilling: %d\nScoring: %d\nSeated players: %d\nPlayers per session: %d\n",
		stats.Sessions, stats.MaxSessions, stats.Filling, stats.Scoring,
		stats.Players, stats.Capacity,
	)
	return mcp.NewToolResultText(result), nil
}
