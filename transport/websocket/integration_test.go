package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quadparty/lobbyd/lobby/coordinator"
	"github.com/quadparty/lobbyd/lobby/session"
)

// startLobby wires store, coordinator, dispatcher, and hub the way main does
// and serves it over httptest.
func startLobby(t *testing.T) string {
	t.Helper()

	store := session.NewStore(4, 100)
	dispatcher := NewDispatcher()
	hub := NewHub(dispatcher, testHubOptions())
	coord := coordinator.New(store, hub, coordinator.Options{
		SessionTimeout: 5 * time.Minute,
		SweepInterval:  time.Minute,
	})
	dispatcher.Bind(coord, hub)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// awaitEvent reads envelopes until one with the wanted event arrives,
// skipping unrelated traffic (other clients' broadcasts arrive interleaved).
func awaitEvent(t *testing.T, conn *websocket.Conn, event string) Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("Waiting for %q: %v", event, err)
		}
		if env.Event == event {
			return env
		}
	}
	t.Fatalf("Timed out waiting for %q", event)
	return Envelope{}
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal payload: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Event: event, Payload: data}); err != nil {
		t.Fatalf("Write %q: %v", event, err)
	}
}

func TestLobbyFlow(t *testing.T) {
	url := startLobby(t)

	names := []string{"A", "B", "C", "D"}
	conns := make([]*websocket.Conn, len(names))
	for i, name := range names {
		conns[i] = dial(t, url)
		sendEvent(t, conns[i], EventJoin, JoinRequest{Name: name})
		ack := awaitEvent(t, conns[i], "joined")
		var joined struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(ack.Payload, &joined); err != nil || joined.SessionID == "" {
			t.Fatalf("Bad joined ack for %s: %s", name, ack.Payload)
		}
	}

	// Fourth join reaches quorum: every client sees the find broadcast.
	var sessionID string
	for i, conn := range conns {
		env := awaitEvent(t, conn, "find")
		var find struct {
			Connected bool   `json:"connected"`
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(env.Payload, &find); err != nil {
			t.Fatalf("Bad find payload: %v", err)
		}
		if !find.Connected {
			t.Error("find payload missing connected=true")
		}
		if i == 0 {
			sessionID = find.SessionID
		} else if find.SessionID != sessionID {
			t.Errorf("Clients saw different session ids: %q vs %q", find.SessionID, sessionID)
		}
	}

	// Everyone submits a score and gets an individual success ack.
	for i, name := range names {
		sendEvent(t, conns[i], EventSubmitScore, SubmitScoreRequest{
			SessionID: sessionID,
			Name:      name,
			Score:     (i + 1) * 10,
		})
		ack := awaitEvent(t, conns[i], "score-ack")
		var status struct {
			Status string `json:"status"`
		}
		json.Unmarshal(ack.Payload, &status)
		if status.Status != "success" {
			t.Fatalf("Score ack for %s: %s", name, ack.Payload)
		}
	}

	// The fourth score triggers a single score-ready with all four entries
	// in submission order.
	for _, conn := range conns {
		env := awaitEvent(t, conn, "score-ready")
		var ready struct {
			SessionID string `json:"sessionId"`
			Scores    []struct {
				Name  string `json:"name"`
				Score int    `json:"score"`
			} `json:"scores"`
		}
		if err := json.Unmarshal(env.Payload, &ready); err != nil {
			t.Fatalf("Bad score-ready payload: %v", err)
		}
		if ready.SessionID != sessionID {
			t.Errorf("score-ready for %q, want %q", ready.SessionID, sessionID)
		}
		if len(ready.Scores) != 4 {
			t.Fatalf("Expected 4 scores, got %d", len(ready.Scores))
		}
		for i, name := range names {
			if ready.Scores[i].Name != name || ready.Scores[i].Score != (i+1)*10 {
				t.Errorf("Scores[%d] = %+v, want {%s %d}", i, ready.Scores[i], name, (i+1)*10)
			}
		}
	}

	// The session is gone: a late submission fails with an error ack.
	sendEvent(t, conns[0], EventSubmitScore, SubmitScoreRequest{
		SessionID: sessionID, Name: "A", Score: 99,
	})
	ack := awaitEvent(t, conns[0], "score-ack")
	var status struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	json.Unmarshal(ack.Payload, &status)
	if status.Status != "error" {
		t.Errorf("Expected error ack after session closed, got %s", ack.Payload)
	}
}

func TestLobbyFlow_InvalidJoin(t *testing.T) {
	url := startLobby(t)

	conn := dial(t, url)
	sendEvent(t, conn, EventJoin, JoinRequest{Name: "   "})

	env := awaitEvent(t, conn, "error")
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.Message == "" {
		t.Errorf("Expected an error message, got %s", env.Payload)
	}
}

func TestLobbyFlow_UnknownEvent(t *testing.T) {
	url := startLobby(t)

	conn := dial(t, url)
	sendEvent(t, conn, "warp-drive", map[string]string{})

	env := awaitEvent(t, conn, "error")
	if !strings.Contains(string(env.Payload), "unknown event") {
		t.Errorf("Expected unknown event error, got %s", env.Payload)
	}
}
