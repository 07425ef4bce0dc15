package coordinator

import "github.com/quadparty/lobbyd/lobby/session"

// Outbound event names.
const (
	// EventJoined acknowledges a successful join to the caller only.
	EventJoined = "joined"

	// EventFind announces a session reaching quorum, broadcast to all clients.
	EventFind = "find"

	// EventScoreAck acknowledges a score submission to the caller only.
	EventScoreAck = "score-ack"

	// EventScoreReady carries a completed session's results, broadcast to all.
	EventScoreReady = "score-ready"

	// EventError reports a recoverable failure to the caller only.
	EventError = "error"
)

// Emitter delivers named events to clients. The websocket hub implements it;
// tests substitute a recorder. Implementations must not block.
type Emitter interface {
	// Broadcast delivers the event to every connected client.
	Broadcast(event string, payload interface{})

	// Send delivers the event to one connection only.
	Send(connID, event string, payload interface{})
}

// JoinedPayload is the per-caller ack for a successful join.
type JoinedPayload struct {
	SessionID string `json:"sessionId"`
}

// FindPayload is the "session full" announcement.
type FindPayload struct {
	Connected bool   `json:"connected"`
	SessionID string `json:"sessionId"`
}

// ScoreAckPayload is the per-caller ack for a score submission.
type ScoreAckPayload struct {
	Status  string `json:"status"` // "success" or "error"
	Message string `json:"message,omitempty"`
}

// ScoreReadyPayload carries a session's aggregated results in submission order.
type ScoreReadyPayload struct {
	SessionID string               `json:"sessionId"`
	Scores    []session.ScoreEntry `json:"scores"`
}

// ErrorPayload reports a failure to the originating connection.
type ErrorPayload struct {
	Message string `json:"message"`
}
