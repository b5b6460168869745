package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"adjectivemagic/internal/infra"
)

// Store keeps the live sessions of the process, keyed by session id.
type Store struct {
	deps    Deps
	idleTTL time.Duration
	logger  *infra.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty store. Sessions idle for longer than idleTTL are
// removed by Sweep.
func NewStore(deps Deps, idleTTL time.Duration) *Store {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Store{
		deps:     deps,
		idleTTL:  idleTTL,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a fresh session.
func (st *Store) Create(locale string) *Session {
	s := New(uuid.NewString(), locale, st.deps)
	st.mu.Lock()
	st.sessions[s.ID()] = s
	n := len(st.sessions)
	st.mu.Unlock()

	st.logger.Debug().Str("session_id", s.ID()).Int("live", n).Msg("session: created")
	return s
}

// Get returns the live session for id and records the access.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.Touch()
	return s, true
}

// Discard closes and forgets the session. Unknown ids are ignored.
func (st *Store) Discard(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many it
// removed. Sessions with a generation in flight are kept.
func (st *Store) Sweep() int {
	cutoff := st.deps.Now().Add(-st.idleTTL)

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		seen, busy := s.idleSince()
		if busy || seen.After(cutoff) {
			continue
		}
		delete(st.sessions, id)
		expired = append(expired, s)
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		st.logger.Info().Int("expired", len(expired)).Msg("session: sweep")
	}
	return len(expired)
}

// Run sweeps on every interval tick until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Close tears down every session.
func (st *Store) Close() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
