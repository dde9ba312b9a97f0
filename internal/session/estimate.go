package session

import (
	"fmt"

	"example.com/gymtag/internal/domain"
)

// EstimateSeconds sums the working, intra-exercise rest and transition
// time for every entry of the workout.
func EstimateSeconds(workout *domain.Workout, cfg Config) int {
	total := 0
	for i, entry := range workout.Entries {
		series := entry.Series
		if series <= 0 {
			series = cfg.DefaultSeries
		}

		rest := cfg.DefaultRestSeconds
		if entry.Rest != "" {
			if parsed := ParseRestSpec(entry.Rest); parsed > 0 {
				rest = parsed
			}
		}

		total += series * cfg.SecondsPerSet
		total += (series - 1) * rest
		if i > 0 {
			total += cfg.TransitionSeconds
		}
	}
	return total
}

// EstimateMinutes rounds the estimate up to whole minutes.
func EstimateMinutes(workout *domain.Workout, cfg Config) int {
	seconds := EstimateSeconds(workout, cfg)
	return (seconds + 59) / 60
}

// FormatDuration renders an estimate in minutes the way the public page
// shows it: "45 min", "1h", "1h 30min".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	remainder := minutes % 60
	if remainder == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, remainder)
}
