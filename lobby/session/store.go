package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCapacityExceeded = errors.New("session store at capacity")
	ErrSessionFull      = errors.New("session is full")
)

// Store holds all live sessions keyed by ID, plus a reverse index from
// connection ID to session ID. Not safe for concurrent use; the coordinator
// serializes all access.
type Store struct {
	capacity    int
	maxSessions int

	sessions map[string]*Session
	order    []string // session IDs in creation order
	byConn   map[string]string
	nextID   uint64
}

// NewStore creates an empty store. capacity is the number of players per
// session, maxSessions the cap on concurrent live sessions.
func NewStore(capacity, maxSessions int) *Store {
	return &Store{
		capacity:    capacity,
		maxSessions: maxSessions,
		sessions:    make(map[string]*Session),
		byConn:      make(map[string]string),
	}
}

// Capacity returns the number of players a session holds when full.
func (st *Store) Capacity() int { return st.capacity }

// MaxSessions returns the cap on concurrent live sessions.
func (st *Store) MaxSessions() int { return st.maxSessions }

// Count returns the number of live sessions.
func (st *Store) Count() int { return len(st.sessions) }

// FindOpen returns the oldest session with spare capacity, or nil.
func (st *Store) FindOpen() *Session {
	for _, id := range st.order {
		s := st.sessions[id]
		if !s.Full && len(s.Players) < st.capacity {
			return s
		}
	}
	return nil
}

// Create allocates a fresh session with a unique ID and inserts it.
// Fails with ErrCapacityExceeded when the store is at MaxSessions.
func (st *Store) Create() (*Session, error) {
	if len(st.sessions) >= st.maxSessions {
		return nil, ErrCapacityExceeded
	}

	st.nextID++
	s := &Session{
		ID:        fmt.Sprintf("s%d", st.nextID),
		Players:   make([]Player, 0, st.capacity),
		Scores:    make([]ScoreEntry, 0, st.capacity),
		CreatedAt: time.Now(),
	}

	st.sessions[s.ID] = s
	st.order = append(st.order, s.ID)
	return s, nil
}

// Get returns the session with the given ID, or nil.
func (st *Store) Get(id string) *Session {
	return st.sessions[id]
}

// ByConn returns the session containing the given connection, or nil.
// A connection belongs to at most one session at a time.
func (st *Store) ByConn(connID string) *Session {
	id, ok := st.byConn[connID]
	if !ok {
		return nil
	}
	return st.sessions[id]
}

// AddPlayer appends p to s and indexes its connection. Returns true when the
// append filled the session's last seat. Fails with ErrSessionFull if the
// session is already at capacity.
func (st *Store) AddPlayer(s *Session, p Player) (full bool, err error) {
	if s.Full || len(s.Players) >= st.capacity {
		return false, ErrSessionFull
	}

	s.Players = append(s.Players, p)
	st.byConn[p.ConnID] = s.ID

	if len(s.Players) == st.capacity {
		s.Full = true
		return true, nil
	}
	return false, nil
}

// DropPlayer removes the player owning connID from s and unindexes the
// connection. Returns the removed player and whether it was found.
func (st *Store) DropPlayer(s *Session, connID string) (Player, bool) {
	p, ok := s.removePlayer(connID)
	if ok {
		delete(st.byConn, connID)
	}
	return p, ok
}

// Remove deletes the session with the given ID along with every index entry
// pointing at it. Idempotent; removing an absent ID is a no-op.
func (st *Store) Remove(id string) {
	s, ok := st.sessions[id]
	if !ok {
		return
	}

	for _, p := range s.Players {
		delete(st.byConn, p.ConnID)
	}
	delete(st.sessions, id)

	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

// Expired returns the sessions whose age exceeds timeout and that never
// filled. Full sessions are actively scoring and are never force-expired.
func (st *Store) Expired(now time.Time, timeout time.Duration) []*Session {
	var expired []*Session
	for _, id := range st.order {
		s := st.sessions[id]
		if !s.Full && now.Sub(s.CreatedAt) > timeout {
			expired = append(expired, s)
		}
	}
	return expired
}

// All returns every live session in creation order.
func (st *Store) All() []*Session {
	result := make([]*Session, 0, len(st.order))
	for _, id := range st.order {
		result = append(result, st.sessions[id])
	}
	return result
}
