// Package mcp provides a read-only MCP (Model Context Protocol) admin
// surface for the lobby server.
//
// The MCP server exposes inspection tools over the live lobby state:
//   - list_sessions: every live session with state and player counts
//   - get_session: one session in detail, including collected scores
//   - server_stats: aggregate store counters
//
// Tools call the in-process LobbyService directly; there is no HTTP hop.
// The server is mounted on the main HTTP router at /mcp by main.
//
// All tools are read-only: lobby state mutations happen only
// through the WebSocket event protocol, so an MCP client can observe but
// never race the coordinator.
package mcp
