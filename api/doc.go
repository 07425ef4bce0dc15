// Package api provides the HTTP surface of the lobby server.
//
// The api package implements:
//   - WebSocket upgrade handling at /ws
//   - Read-only operator endpoints for sessions and store stats
//   - Liveness and Prometheus metrics endpoints
//   - Static file serving for the game client
//
// Endpoints:
//
// Lobby traffic:
//   - GET /ws - upgrade to the WebSocket event protocol
//
// Operator:
//   - GET /api/sessions - list live sessions
//   - GET /api/sessions/{id} - inspect one session
//   - GET /api/stats - aggregate store counters
//
// Infrastructure:
//   - GET /healthz - liveness probe
//   - GET /metrics - Prometheus metrics
//   - GET / - static files
//
// All operator endpoints return JSON. Errors are returned as JSON with an
// appropriate HTTP status code:
//
//	{"error": "unknown session"}
//
// The operator endpoints are read-only: every mutation of lobby
// state flows through the WebSocket event protocol, so there is no HTTP path
// that can race a client event.
package api
