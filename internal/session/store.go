package session

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/sweethome/internal/telemetry"
	"github.com/google/uuid"
)

// Factory builds a new session for the given ID.
type Factory func(id uuid.UUID) *Session

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps live sessions in memory, keyed by a random UUID. Sessions idle
// longer than the configured timeout expire. Nothing is persisted.
type Store struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*entry
	idleTimeout time.Duration
	factory     Factory
	metrics     *telemetry.StorefrontMetrics
	now         func() time.Time
}

// NewStore creates a store. An idleTimeout of zero disables expiry.
func NewStore(idleTimeout time.Duration, factory Factory, metrics *telemetry.StorefrontMetrics) *Store {
	return &Store{
		sessions:    make(map[uuid.UUID]*entry),
		idleTimeout: idleTimeout,
		factory:     factory,
		metrics:     metrics,
		now:         time.Now,
	}
}

// Create starts a new session under a fresh ID.
func (st *Store) Create() *Session {
	id := uuid.New()
	s := st.factory(id)

	st.mu.Lock()
	st.sessions[id] = &entry{session: s, lastSeen: st.now()}
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetActiveSessions(n)
	return s
}

// Get returns a live session and marks it as used. Expired sessions are
// removed and reported as missing.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(e, now) {
		delete(st.sessions, id)
		st.metrics.SetActiveSessions(len(st.sessions))
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// Sweep removes expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	now := st.now()
	removed := 0
	for id, e := range st.sessions {
		if st.expired(e, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetActiveSessions(n)
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// SweepEvery calls Sweep on every tick until ctx is done.
func (st *Store) SweepEvery(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := st.Sweep()
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func (st *Store) expired(e *entry, now time.Time) bool {
	return st.idleTimeout > 0 && now.Sub(e.lastSeen) > st.idleTimeout
}
