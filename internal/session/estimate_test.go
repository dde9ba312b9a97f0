package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/gymtag/internal/domain"
)

func workoutWith(entries ...domain.WorkoutEntry) *domain.Workout {
	return &domain.Workout{ID: "w-1", Name: "Treino A", Entries: entries}
}

func TestEstimateMinutesSingleEntryDefaults(t *testing.T) {
	// 3 sets * 45s + 2 rests * 60s = 255s -> ceil to 5 minutes.
	w := workoutWith(domain.WorkoutEntry{ID: "e-1", Order: 1, Series: 3})

	require.Equal(t, 5, EstimateMinutes(w, DefaultConfig()))
}

func TestEstimateMinutesMissingSeriesDefaultsToThree(t *testing.T) {
	w := workoutWith(domain.WorkoutEntry{ID: "e-1", Order: 1})

	require.Equal(t, 255, EstimateSeconds(w, DefaultConfig()))
}

func TestEstimateUsesParsedRestSpec(t *testing.T) {
	// 3*45 + 2*90 = 315s.
	w := workoutWith(domain.WorkoutEntry{ID: "e-1", Order: 1, Series: 3, Rest: "90s"})

	require.Equal(t, 315, EstimateSeconds(w, DefaultConfig()))
}

func TestEstimateUnparseableRestFallsBackToDefault(t *testing.T) {
	w := workoutWith(domain.WorkoutEntry{ID: "e-1", Order: 1, Series: 3, Rest: "a vontade"})

	require.Equal(t, 255, EstimateSeconds(w, DefaultConfig()))
}

func TestEstimateAddsTransitionBetweenEntriesOnly(t *testing.T) {
	// Two identical entries: 255 + 255 + one 60s transition.
	entry := domain.WorkoutEntry{Series: 3}
	first, second := entry, entry
	first.ID, first.Order = "e-1", 1
	second.ID, second.Order = "e-2", 2
	w := workoutWith(first, second)

	require.Equal(t, 570, EstimateSeconds(w, DefaultConfig()))
}

func TestEstimateHonorsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SecondsPerSet = 30
	cfg.DefaultRestSeconds = 30
	// 3*30 + 2*30 = 150s -> 3 minutes.
	w := workoutWith(domain.WorkoutEntry{ID: "e-1", Order: 1, Series: 3})

	require.Equal(t, 3, EstimateMinutes(w, cfg))
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "5 min", FormatDuration(5))
	require.Equal(t, "59 min", FormatDuration(59))
	require.Equal(t, "1h", FormatDuration(60))
	require.Equal(t, "1h 30min", FormatDuration(90))
	require.Equal(t, "2h", FormatDuration(120))
	require.Equal(t, "2h 5min", FormatDuration(125))
}
