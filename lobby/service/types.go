package service

import (
	"time"

	"github.com/quadparty/lobbyd/lobby/session"
)

// SessionInfo is a read-only snapshot of a live session.
type SessionInfo struct {
	ID           string               `json:"id"`
	State        string               `json:"state"` // "filling" or "full"
	Players      []string             `json:"players"`
	Scores       []session.ScoreEntry `json:"scores"`
	Disconnected int                  `json:"disconnected"`
	CreatedAt    time.Time            `json:"created_at"`
}

// StoreStats summarizes the state of the session store.
type StoreStats struct {
	Sessions    int `json:"sessions"`
	MaxSessions int `json:"max_sessions"`
	Capacity    int `json:"players_per_session"`
	Filling     int `json:"filling"`
	Scoring     int `json:"scoring"`
	Players     int `json:"players"`
}
