package coordinator

import (
	"context"

	"github.com/quadparty/lobbyd/lobby/service"
	"github.com/quadparty/lobbyd/lobby/session"
)

// The coordinator doubles as the read-side LobbyService for the REST API and
// the MCP admin surface. Snapshots are built under the same mutex as event
// handling, so a listing never observes a session mid-mutation.

var _ service.LobbyService = (*Coordinator)(nil)

// ListSessions implements service.LobbyService.
func (c *Coordinator) ListSessions(ctx context.Context) ([]service.SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := c.store.All()
	infos := make([]service.SessionInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, snapshot(s))
	}
	return infos, nil
}

// GetSession implements service.LobbyService.
func (c *Coordinator) GetSession(ctx context.Context, sessionID string) (service.SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.store.Get(sessionID)
	if s == nil {
		return service.SessionInfo{}, ErrUnknownSession
	}
	return snapshot(s), nil
}

// Stats implements service.LobbyService.
func (c *Coordinator) Stats(ctx context.Context) (service.StoreStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := service.StoreStats{
		Sessions: c.store.Count(),
		Capacity: c.store.Capacity(),
	}
	for _, s := range c.store.All() {
		if s.Full {
			stats.Scoring++
		} else {
			stats.Filling++
		}
		stats.Players += len(s.Players)
	}
	stats.MaxSessions = c.store.MaxSessions()
	return stats, nil
}

// snapshot copies a session into its read-only DTO form.
func snapshot(s *session.Session) service.SessionInfo {
	info := service.SessionInfo{
		ID:           s.ID,
		State:        "filling",
		Players:      make([]string, 0, len(s.Players)),
		Scores:       make([]session.ScoreEntry, len(s.Scores)),
		Disconnected: s.Disconnected,
		CreatedAt:    s.CreatedAt,
	}
	if s.Full {
		info.State = "full"
	}
	for _, p := range s.Players {
		info.Players = append(info.Players, p.Name)
	}
	copy(info.Scores, s.Scores)
	return info
}
