// Package coordinator implements the matchmaking coordinator: the event-driven
// state machine that owns the session store and reconciles concurrent join,
// score, and disconnect events against it.
//
// The coordinator implements:
//   - Capacity-only FIFO matchmaking into fixed-size sessions
//   - Exactly-once "session full" and "scores ready" broadcasts
//   - Idempotent score submission keyed by (session, player)
//   - Zero-score accounting for players that drop mid-scoring
//   - Periodic expiry of sessions that never filled
//
// State machine per session:
//
//	Filling -> Full (scoring) -> Closed
//
// Filling becomes Full when the last seat is taken, which triggers the single
// "find" broadcast. Full becomes Closed when one score per player has been
// collected (submitted, or zero-filled on disconnect), which triggers the
// single "score-ready" broadcast immediately followed by removal. A session
// still Filling can also be removed without any broadcast, either by the
// expiry sweep or by shrinking to zero players through disconnects.
//
// Concurrency:
//
// One mutex serializes Join, SubmitScore, Disconnect, and SweepExpired, so
// every event executes as an indivisible critical section against the store.
// Handlers never block: outbound deliveries go through the Emitter, whose
// implementations hand messages to buffered per-connection channels.
package coordinator
