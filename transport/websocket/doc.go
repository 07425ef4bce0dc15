// Package websocket provides the WebSocket transport for the lobby server.
//
// The websocket package implements:
//   - Persistent bidirectional connections with named-event JSON messages
//   - Broadcast-to-all plus per-connection delivery
//   - Connection lifecycle management with opaque connection IDs
//   - Per-connection inbound rate limiting
//   - Origin checking for cross-origin upgrades
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub tracks every
// connected client. Each connection is handled by a dedicated pair of
// goroutines: a read pump that decodes inbound envelopes and hands them to
// the EventHandler, and a write pump that drains the client's buffered send
// channel onto the wire.
//
// Message Protocol:
//
// Every message is a JSON envelope with an event name and a raw payload:
//
//	{"event": "join", "payload": {"name": "ada"}}
//	{"event": "submit-score", "payload": {"sessionId": "s7", "name": "ada", "score": 40}}
//
// Outbound messages use the same envelope. The payload is kept as raw JSON
// inbound so each handler decodes only the shape it expects.
//
// Connection Identity:
//
// The hub assigns each connection an opaque UUID on upgrade. That ID is the
// only handle the coordinator ever sees; the coordinator never touches a
// *websocket.Conn.
//
// Delivery Semantics:
//
// Broadcast and Send never block: each client has a buffered send channel,
// and a client that cannot keep up is dropped rather than allowed to stall
// everyone else. Event handlers therefore never suspend mid-mutation.
package websocket
