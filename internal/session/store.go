package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/gymtag/internal/domain"
)

// Store holds live session runners keyed by an opaque session ID. Sessions
// are in-memory only; an idle TTL reclaims abandoned ones since browsers
// rarely say goodbye.
type Store struct {
	cfg Config
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*storeEntry

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// onComplete receives the workout each time a session reaches the
	// all-done state.
	onComplete func(workout *domain.Workout, sessionID string)
}

type storeEntry struct {
	runner   *Runner
	lastSeen time.Time
}

// NewStore creates a Store and starts its eviction janitor.
func NewStore(cfg Config, ttl time.Duration, onComplete func(*domain.Workout, string)) *Store {
	s := &Store{
		cfg:        cfg,
		ttl:        ttl,
		sessions:   make(map[string]*storeEntry),
		done:       make(chan struct{}),
		onComplete: onComplete,
	}
	s.wg.Add(1)
	go s.janitor()
	return s
}

// Create starts a session for the workout and returns its ID and first
// snapshot.
func (s *Store) Create(workout *domain.Workout) (string, View) {
	id := uuid.NewString()

	var complete func()
	if s.onComplete != nil {
		complete = func() { s.onComplete(workout, id) }
	}
	runner := NewRunner(workout, s.cfg, complete)

	s.mu.Lock()
	s.sessions[id] = &storeEntry{runner: runner, lastSeen: time.Now()}
	s.mu.Unlock()

	return id, runner.View()
}

// Get returns the runner for a live session and refreshes its TTL.
func (s *Store) Get(id string) (*Runner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.runner, true
}

// Delete tears down a session. Unknown IDs are a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		entry.runner.Close()
	}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor and tears down every live session.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()

		s.mu.Lock()
		entries := make([]*storeEntry, 0, len(s.sessions))
		for id, entry := range s.sessions {
			entries = append(entries, entry)
			delete(s.sessions, id)
		}
		s.mu.Unlock()

		for _, entry := range entries {
			entry.runner.Close()
		}
	})
}

func (s *Store) janitor() {
	defer s.wg.Done()

	interval := s.ttl / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *Store) evictIdle() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*storeEntry
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, entry := range expired {
		entry.runner.Close()
	}
}
