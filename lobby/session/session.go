package session

import "time"

// Player is a lobby participant. Immutable after creation.
type Player struct {
	Name   string `json:"name"`
	ConnID string `json:"-"`
}

// ScoreEntry records one player's final score, in submission order.
type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Session is a bounded group of players coordinated toward a shared scoring
// outcome. A session fills with players up to the configured capacity, then
// collects one score per player, then is removed.
type Session struct {
	ID string

	// Players in join order. Never exceeds the store's capacity.
	Players []Player

	// Scores in submission order. One entry per player, at most.
	Scores []ScoreEntry

	// Disconnected counts players that dropped while the session was full.
	Disconnected int

	CreatedAt time.Time

	// Full is set exactly once, when the last seat is taken. A full session
	// stops being offered by FindOpen and is exempt from expiry.
	Full bool
}

// HasPlayer reports whether a player with the given name is in the session.
func (s *Session) HasPlayer(name string) bool {
	for _, p := range s.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// HasScore reports whether the named player already submitted a score.
func (s *Session) HasScore(name string) bool {
	for _, e := range s.Scores {
		if e.Name == name {
			return true
		}
	}
	return false
}

// removePlayer drops the player owning connID, preserving join order.
// Returns the removed player and whether it was found.
func (s *Session) removePlayer(connID string) (Player, bool) {
	for i, p := range s.Players {
		if p.ConnID == connID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return p, true
		}
	}
	return Player{}, false
}
