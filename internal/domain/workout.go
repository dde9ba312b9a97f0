// Package domain defines the core entities and business logic for the
// gymtag service.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Exercise is a reusable named movement with a demonstration video.
type Exercise struct {
	ID           string
	Name         string
	Description  string
	YouTubeURL   string
	YouTubeID    string
	Thumbnail    string
	CategoryID   string
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkoutEntry joins a workout and an exercise, carrying workout-specific
// parameters. Series, Reps, Rest and Note are optional; empty strings and
// zero Series mean "not set".
type WorkoutEntry struct {
	ID         string
	ExerciseID string
	Order      int
	Series     int
	Reps       string
	Rest       string
	Note       string
	Exercise   Exercise
}

// Workout is an ordered, named collection of exercise entries.
type Workout struct {
	ID          string
	Name        string
	Description string
	Entries     []WorkoutEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	// ErrWorkoutNotFound is returned when a workout cannot be located.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrExerciseNotFound is returned when an exercise cannot be located.
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Validate enforces workout invariants: at least one entry, and 1-based
// contiguous unique ordering.
func (w Workout) Validate() error {
	if w.Name == "" {
		return errors.New("name is required")
	}
	if len(w.Entries) == 0 {
		return errors.New("workout must contain at least one entry")
	}
	seen := make(map[int]struct{}, len(w.Entries))
	for _, entry := range w.Entries {
		if entry.Order < 1 || entry.Order > len(w.Entries) {
			return fmt.Errorf("entry order %d outside 1..%d", entry.Order, len(w.Entries))
		}
		if _, dup := seen[entry.Order]; dup {
			return fmt.Errorf("duplicate entry order %d", entry.Order)
		}
		seen[entry.Order] = struct{}{}
		if entry.Series < 0 {
			return fmt.Errorf("entry %s: series must be positive", entry.ID)
		}
	}
	return nil
}

// EntryByID returns the entry with the given identity, or nil.
func (w Workout) EntryByID(id string) *WorkoutEntry {
	for i := range w.Entries {
		if w.Entries[i].ID == id {
			return &w.Entries[i]
		}
	}
	return nil
}

// EntryIDs lists entry identities in display order.
func (w Workout) EntryIDs() []string {
	ids := make([]string, 0, len(w.Entries))
	for _, entry := range w.Entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
