package coordinator

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/quadparty/lobbyd/lobby/metrics"
	"github.com/quadparty/lobbyd/lobby/session"
)

var (
	ErrInvalidPlayer  = errors.New("invalid player name")
	ErrUnknownSession = errors.New("unknown session")
)

// Options configure coordinator policy.
type Options struct {
	// SessionTimeout is the age after which a never-filled session is swept.
	SessionTimeout time.Duration

	// SweepInterval is how often the expiry sweep runs.
	SweepInterval time.Duration

	// KeepEmptySessions leaves a session in the store after its last Filling
	// player disconnects instead of removing it. Off by default: an empty
	// session holds a store slot for nobody.
	KeepEmptySessions bool
}

// Coordinator owns the session store and processes every client event as an
// atomic step against it.
type Coordinator struct {
	mu      sync.Mutex
	store   *session.Store
	emitter Emitter
	opts    Options
}

// New creates a coordinator around the given store and emitter.
func New(store *session.Store, emitter Emitter, opts Options) *Coordinator {
	return &Coordinator{
		store:   store,
		emitter: emitter,
		opts:    opts,
	}
}

// Join places a named player into the oldest open session, creating one when
// none has a spare seat. When the join fills the session's last seat, a single
// "find" broadcast announces the session to every client. Failures are
// reported to the joining connection only.
func (c *Coordinator) Join(connID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		c.reportError(connID, ErrInvalidPlayer)
		metrics.JoinFailuresTotal.WithLabelValues("invalid_player").Inc()
		return ErrInvalidPlayer
	}

	s := c.store.FindOpen()
	if s == nil {
		var err error
		s, err = c.store.Create()
		if err != nil {
			c.reportError(connID, err)
			metrics.JoinFailuresTotal.WithLabelValues("capacity_exceeded").Inc()
			return err
		}
	}

	full, err := c.store.AddPlayer(s, session.Player{Name: name, ConnID: connID})
	if err != nil {
		// FindOpen and AddPlayer run under one lock, so this only fires if a
		// caller bypasses Join. Report it like any other recoverable failure.
		c.reportError(connID, err)
		metrics.JoinFailuresTotal.WithLabelValues("session_full").Inc()
		return err
	}

	metrics.JoinsTotal.Inc()
	metrics.SessionsActive.Set(float64(c.store.Count()))
	c.emitter.Send(connID, EventJoined, JoinedPayload{SessionID: s.ID})
	log.Printf("Player %q joined session %s (%d/%d)", name, s.ID, len(s.Players), c.store.Capacity())

	if full {
		c.emitter.Broadcast(EventFind, FindPayload{Connected: true, SessionID: s.ID})
		metrics.BroadcastsTotal.WithLabelValues(EventFind).Inc()
		log.Printf("Session %s is full, scoring begins", s.ID)
	}
	return nil
}

// SubmitScore records a player's final score. Submission is idempotent per
// (session, player): a duplicate is acknowledged as success without appending.
// The fourth recorded score completes the session.
func (c *Coordinator) SubmitScore(connID, sessionID, name string, score int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.store.Get(sessionID)
	if s == nil {
		c.ackScore(connID, ErrUnknownSession)
		return ErrUnknownSession
	}
	if !s.HasPlayer(name) {
		c.ackScore(connID, ErrInvalidPlayer)
		return ErrInvalidPlayer
	}
	if s.HasScore(name) {
		// Duplicate submission: already recorded, nothing to change.
		c.ackScore(connID, nil)
		return nil
	}

	s.Scores = append(s.Scores, session.ScoreEntry{Name: name, Score: score})
	metrics.ScoresTotal.Inc()
	c.ackScore(connID, nil)

	c.maybeFinish(s)
	return nil
}

// Disconnect handles a connection dropping. A connection not found in any
// session is a silent no-op. Disconnects are transport-driven and cannot be
// retried by a client that is already gone, so a panic here is recovered and
// logged rather than allowed to take the coordinator down.
func (c *Coordinator) Disconnect(connID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic handling disconnect of %s: %v", connID, r)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.store.ByConn(connID)
	if s == nil {
		return
	}

	if !s.Full {
		p, _ := c.store.DropPlayer(s, connID)
		log.Printf("Player %q left filling session %s (%d left)", p.Name, s.ID, len(s.Players))
		if len(s.Players) == 0 && !c.opts.KeepEmptySessions {
			c.store.Remove(s.ID)
		}
		metrics.SessionsActive.Set(float64(c.store.Count()))
		return
	}

	// Scoring phase: the seat stays taken, the player's score becomes zero.
	var name string
	for _, p := range s.Players {
		if p.ConnID == connID {
			name = p.Name
			break
		}
	}
	s.Disconnected++
	if name != "" && !s.HasScore(name) {
		s.Scores = append(s.Scores, session.ScoreEntry{Name: name, Score: 0})
		log.Printf("Player %q disconnected from full session %s, recorded zero score", name, s.ID)
	}

	c.maybeFinish(s)

	// Everyone gone before scoring completed: tear the session down anyway.
	if s.Disconnected >= c.store.Capacity() && c.store.Get(s.ID) != nil {
		log.Printf("All players disconnected from session %s, removing", s.ID)
		c.store.Remove(s.ID)
		metrics.SessionsActive.Set(float64(c.store.Count()))
	}
}

// SweepExpired removes every never-filled session older than the configured
// timeout and returns how many were removed. Full sessions are exempt.
func (c *Coordinator) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := c.store.Expired(time.Now(), c.opts.SessionTimeout)
	for _, s := range expired {
		c.store.Remove(s.ID)
		log.Printf("Swept expired session %s (age %s, %d players)",
			s.ID, time.Since(s.CreatedAt).Round(time.Second), len(s.Players))
	}
	if len(expired) > 0 {
		metrics.SessionsSweptTotal.Add(float64(len(expired)))
		metrics.SessionsActive.Set(float64(c.store.Count()))
	}
	return len(expired)
}

// Run drives the periodic expiry sweep until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SweepExpired()
		}
	}
}

// maybeFinish runs the shared completion path: when one score per seat has
// been collected, broadcast the results in submission order and remove the
// session. Callers hold the mutex, and removal happens in the same critical
// section as the broadcast, so completion fires at most once per session.
func (c *Coordinator) maybeFinish(s *session.Session) {
	if len(s.Scores) < c.store.Capacity() {
		return
	}

	scores := make([]session.ScoreEntry, len(s.Scores))
	copy(scores, s.Scores)

	c.emitter.Broadcast(EventScoreReady, ScoreReadyPayload{SessionID: s.ID, Scores: scores})
	metrics.BroadcastsTotal.WithLabelValues(EventScoreReady).Inc()

	c.store.Remove(s.ID)
	metrics.SessionsActive.Set(float64(c.store.Count()))
	log.Printf("Session %s complete, broadcast %d scores and removed", s.ID, len(scores))
}

// reportError sends a recoverable failure to the originating connection only.
func (c *Coordinator) reportError(connID string, err error) {
	c.emitter.Send(connID, EventError, ErrorPayload{Message: err.Error()})
}

// ackScore acknowledges a score submission to the submitting connection.
func (c *Coordinator) ackScore(connID string, err error) {
	ack := ScoreAckPayload{Status: "success"}
	if err != nil {
		ack = ScoreAckPayload{Status: "error", Message: err.Error()}
	}
	c.emitter.Send(connID, EventScoreAck, ack)
}
