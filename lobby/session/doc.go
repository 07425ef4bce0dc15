// Package session provides the in-memory session store for the lobby server.
//
// The session package implements:
//   - Keyed storage of live sessions with stable, never-reused identifiers
//   - A concurrent-session cap (MaxSessions)
//   - FIFO selection of the oldest session with spare capacity
//   - A reverse index from connection ID to session ID
//   - Age-based expiry of sessions that never filled
//
// Core Types:
//
// Store holds every live Session keyed by ID. Session is a bounded group of
// players being collected toward a shared scoring outcome, together with the
// scores submitted so far.
//
// Session Identifiers:
//
// IDs come from a monotonically increasing counter and are formatted as
// opaque strings ("s1", "s2", ...). An ID is never reassigned to a different
// session for the lifetime of the process, so a stale ID held by a client
// misses instead of silently resolving to someone else's session.
//
// Concurrency:
//
// The Store is NOT safe for concurrent use. All access is serialized by the
// coordinator, which treats every operation against the store as a single
// critical section. Keeping the locking out of the store means a multi-step
// operation (find, append, maybe broadcast, maybe remove) cannot interleave
// with another connection's event halfway through.
package session
