package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxSessions = 1000
	DefaultMaxIdle     = 30 * time.Minute
)

// Gauge receives the live session count.
type Gauge interface {
	SetSessions(n int)
}

// StoreConfig configures a Store.
type StoreConfig struct {
	MaxSessions int
	MaxIdle     time.Duration
	Observer    PasteObserver
	Gauge       Gauge
}

// Store keeps session states in memory, keyed by session id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State

	maxSessions int
	maxIdle     time.Duration
	observer    PasteObserver
	gauge       Gauge
	now         func() time.Time
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = DefaultMaxIdle
	}
	return &Store{
		sessions:    make(map[string]*State),
		maxSessions: cfg.MaxSessions,
		maxIdle:     cfg.MaxIdle,
		observer:    cfg.Observer,
		gauge:       cfg.Gauge,
		now:         time.Now,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get returns the state for id, creating it on first use. An empty or
// malformed id gets a new identifier; callers must persist State.ID().
func (s *Store) Get(id string) *State {
	if _, err := uuid.Parse(id); err != nil {
		id = NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.sessions[id]; ok {
		st.Touch()
		return st
	}

	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	st := NewState(id, s.observer)
	st.now = s.now
	st.lastSeen = s.now()
	s.sessions[id] = st
	s.reportLocked()
	return st
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than maxIdle and returns how many
// were dropped.
func (s *Store) Cleanup(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		if st.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.reportLocked()
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(s.maxIdle); n > 0 {
				slog.Debug("session cleanup", "removed", n, "remaining", s.Len())
			}
		}
	}
}

// evictOldestLocked drops the least recently seen session. Caller holds mu.
func (s *Store) evictOldestLocked() {
	var (
		oldestID   string
		oldestSeen time.Time
	)
	for id, st := range s.sessions {
		seen := st.LastSeen()
		if oldestID == "" || seen.Before(oldestSeen) {
			oldestID, oldestSeen = id, seen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		slog.Debug("session evicted", "session_id", oldestID[:8])
	}
}

func (s *Store) reportLocked() {
	if s.gauge != nil {
		s.gauge.SetSessions(len(s.sessions))
	}
}
