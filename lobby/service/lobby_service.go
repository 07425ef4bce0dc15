package service

import "context"

// LobbyService exposes read-only lobby state to operator-facing surfaces.
type LobbyService interface {
	// ListSessions returns a snapshot of every live session in creation order.
	ListSessions(ctx context.Context) ([]SessionInfo, error)

	// GetSession returns a snapshot of one session.
	GetSession(ctx context.Context, sessionID string) (SessionInfo, error)

	// Stats returns aggregate counts for the store.
	Stats(ctx context.Context) (StoreStats, error)
}
