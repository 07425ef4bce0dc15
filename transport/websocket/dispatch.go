package websocket

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quadparty/lobbyd/lobby/coordinator"
)

// Inbound event names.
const (
	EventJoin        = "join"
	EventSubmitScore = "submit-score"
)

// JoinRequest is the payload of a "join" event.
type JoinRequest struct {
	Name string `json:"name"`
}

// SubmitScoreRequest is the payload of a "submit-score" event.
type SubmitScoreRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
}

// Dispatcher routes inbound envelopes to coordinator operations. It is the
// hub's EventHandler.
type Dispatcher struct {
	coord   *coordinator.Coordinator
	emitter coordinator.Emitter
}

// NewDispatcher creates an unbound dispatcher. Bind must be called before
// the hub starts accepting connections; the split exists because the hub
// needs the dispatcher at construction and the coordinator needs the hub.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Bind wires the dispatcher to the coordinator and the emitter used for
// protocol-level error replies.
func (d *Dispatcher) Bind(coord *coordinator.Coordinator, emitter coordinator.Emitter) {
	d.coord = coord
	d.emitter = emitter
}

// OnEvent implements EventHandler.
func (d *Dispatcher) OnEvent(connID, event string, payload json.RawMessage) {
	switch event {
	case EventJoin:
		var req JoinRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			d.protocolError(connID, fmt.Sprintf("malformed join payload: %v", err))
			return
		}
		d.coord.Join(connID, req.Name)

	case EventSubmitScore:
		var req SubmitScoreRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			d.protocolError(connID, fmt.Sprintf("malformed submit-score payload: %v", err))
			return
		}
		d.coord.SubmitScore(connID, req.SessionID, req.Name, req.Score)

	default:
		d.protocolError(connID, fmt.Sprintf("unknown event %q", event))
	}
}

// OnDisconnect implements EventHandler.
func (d *Dispatcher) OnDisconnect(connID string) {
	d.coord.Disconnect(connID)
}

// protocolError reports a transport-level failure to the caller only, using
// the same error event the coordinator uses for its failures.
func (d *Dispatcher) protocolError(connID, message string) {
	log.Printf("Client %s: %s", connID, message)
	d.emitter.Send(connID, coordinator.EventError, coordinator.ErrorPayload{Message: message})
}
