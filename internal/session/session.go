package session

import "example.com/gymtag/internal/domain"

// Session tracks per-entry completion and the single open accordion panel
// for one rendering of a workout. State is ephemeral: it exists for one
// page view and is never persisted.
type Session struct {
	workout   *domain.Workout
	completed map[string]struct{}
	open      string
}

// New creates session state for a workout. The first entry in display
// order starts open, matching the public page.
func New(workout *domain.Workout) *Session {
	s := &Session{
		workout:   workout,
		completed: make(map[string]struct{}, len(workout.Entries)),
	}
	if len(workout.Entries) > 0 {
		s.open = workout.Entries[0].ID
	}
	return s
}

// Workout returns the immutable workout this session operates over.
func (s *Session) Workout() *domain.Workout {
	return s.workout
}

// ToggleEntry flips completion for a known entry. It reports whether the
// toggle made the workout fully complete, which is the moment the
// one-shot completion event fires. The trigger is level-based: leaving
// and re-reaching "all done" fires it again.
func (s *Session) ToggleEntry(entryID string) (completedAll bool, ok bool) {
	if s.workout.EntryByID(entryID) == nil {
		return false, false
	}
	wasAll := s.AllComplete()
	if _, done := s.completed[entryID]; done {
		delete(s.completed, entryID)
	} else {
		s.completed[entryID] = struct{}{}
	}
	return !wasAll && s.AllComplete(), true
}

// Expand opens an entry's detail panel, implicitly closing any other
// (accordion semantics, not a stack).
func (s *Session) Expand(entryID string) bool {
	if s.workout.EntryByID(entryID) == nil {
		return false
	}
	s.open = entryID
	return true
}

// Collapse closes the open panel, if any.
func (s *Session) Collapse() {
	s.open = ""
}

// OpenEntry returns the currently expanded entry ID, or "".
func (s *Session) OpenEntry() string {
	return s.open
}

// IsCompleted reports completion for one entry.
func (s *Session) IsCompleted(entryID string) bool {
	_, done := s.completed[entryID]
	return done
}

// CompletedIDs lists completed entries in workout display order.
func (s *Session) CompletedIDs() []string {
	ids := make([]string, 0, len(s.completed))
	for _, entry := range s.workout.Entries {
		if s.IsCompleted(entry.ID) {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// AllComplete reports whether every entry is marked done. A workout
// always has at least one entry, so an empty completion set is never
// "all complete".
func (s *Session) AllComplete() bool {
	return len(s.workout.Entries) > 0 && len(s.completed) == len(s.workout.Entries)
}
