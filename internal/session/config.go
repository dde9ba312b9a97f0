// Package session implements the per-view workout session: completion
// tracking, the rest countdown timer, and estimated-duration calculation.
// Transition logic is pure; scheduling lives in the Runner.
package session

import "time"

// Config gathers the tunables the estimation and timer logic depend on,
// so tests can vary them instead of relying on inlined constants.
type Config struct {
	// SecondsPerSet is the assumed working time of one set.
	SecondsPerSet int
	// DefaultSeries applies when an entry has no series count.
	DefaultSeries int
	// DefaultRestSeconds applies when an entry has no parseable rest spec.
	DefaultRestSeconds int
	// TransitionSeconds is the rest between consecutive exercises.
	TransitionSeconds int
	// CompletedResetDelay is how long a finished timer shows "completed"
	// before automatically returning to idle.
	CompletedResetDelay time.Duration
	// TickInterval is the countdown granularity.
	TickInterval time.Duration
}

// DefaultConfig returns the production values.
func DefaultConfig() Config {
	return Config{
		SecondsPerSet:       45,
		DefaultSeries:       3,
		DefaultRestSeconds:  60,
		TransitionSeconds:   60,
		CompletedResetDelay: 3 * time.Second,
		TickInterval:        time.Second,
	}
}
