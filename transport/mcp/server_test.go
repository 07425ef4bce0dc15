package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quadparty/lobbyd/lobby/service"
	"github.com/quadparty/lobbyd/lobby/session"
)

// fakeService implements service.LobbyService with canned data.
type fakeService struct {
	sessions []service.SessionInfo
	stats    service.StoreStats
}

func (f *fakeService) ListSessions(ctx context.Context) ([]service.SessionInfo, error) {
	return f.sessions, nil
}

func (f *fakeService) GetSession(ctx context.Context, sessionID string) (service.SessionInfo, error) {
	for _, s := range f.sessions {
		if s.ID == sessionID {
			return s, nil
		}
	}
	return service.SessionInfo{}, errors.New("unknown session")
}

func (f *fakeService) Stats(ctx context.Context) (service.StoreStats, error) {
	return f.stats, nil
}

func testService() *fakeService {
	return &fakeService{
		sessions: []service.SessionInfo{
			{
				ID:        "s1",
				State:     "full",
				Players:   []string{"A", "B", "C", "D"},
				Scores:    []session.ScoreEntry{{Name: "A", Score: 10}},
				CreatedAt: time.Now(),
			},
		},
		stats: service.StoreStats{Sessions: 1, MaxSessions: 100, Capacity: 4, Scoring: 1, Players: 4},
	}
}

func TestNewAdmin(t *testing.T) {
	admin := NewAdmin(testService(), "1.0.0")

	if admin == nil {
		t.Fatal("Expected admin to be created")
	}
	if admin.Server() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestHandleListSessions(t *testing.T) {
	admin := NewAdmin(testService(), "1.0.0")

	result, err := admin.handleListSessions(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("list_sessions failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "s1") || !strings.Contains(text, "full") {
		t.Errorf("Unexpected output: %s", text)
	}
}

func TestHandleGetSession(t *testing.T) {
	admin := NewAdmin(testService(), "1.0.0")

	t.Run("existing session", func(t *testing.T) {
		request := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_session",
				Arguments: map[string]interface{}{"session_id": "s1"},
			},
		}
		result, err := admin.handleGetSession(context.Background(), request)
		if err != nil {
			t.Fatalf("get_session failed: %v", err)
		}
		text := textContent(t, result)
		if !strings.Contains(text, "Session s1") || !strings.Contains(text, "A, B, C, D") {
			t.Errorf("Unexpected output: %s", text)
		}
	})

	t.Run("missing session_id", func(t *testing.T) {
		request := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_session",
				Arguments: map[string]interface{}{},
			},
		}
		result, err := admin.handleGetSession(context.Background(), request)
		if err != nil {
			t.Fatalf("get_session errored: %v", err)
		}
		if !result.IsError {
			t.Error("Expected an error result for missing session_id")
		}
	})
}

func TestHandleServerStats(t *testing.T) {
	admin := NewAdmin(testService(), "1.0.0")

	result, err := admin.handleServerStats(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("server_stats failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "Sessions: 1/100") {
		t.Errorf("Unexpected output: %s", text)
	}
}
