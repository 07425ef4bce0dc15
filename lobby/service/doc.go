// Package service defines the interfaces and data transfer types shared by
// the lobby coordinator and its consumers (REST API, MCP transport).
//
// LobbyService is the read-side contract the HTTP and MCP surfaces are built
// against; the coordinator implements it. Event-side operations (join, score,
// disconnect) are not part of this interface because they are driven by the
// websocket transport, which talks to the coordinator directly.
package service
