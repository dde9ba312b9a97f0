package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/gymtag/internal/domain"
)

func threeEntryWorkout() *domain.Workout {
	return &domain.Workout{
		ID:   "w-1",
		Name: "Treino A",
		Entries: []domain.WorkoutEntry{
			{ID: "e-1", Order: 1},
			{ID: "e-2", Order: 2},
			{ID: "e-3", Order: 3},
		},
	}
}

func TestNewSessionOpensFirstEntry(t *testing.T) {
	s := New(threeEntryWorkout())
	require.Equal(t, "e-1", s.OpenEntry())
	require.Empty(t, s.CompletedIDs())
	require.False(t, s.AllComplete())
}

func TestToggleEntryFlipsMembership(t *testing.T) {
	s := New(threeEntryWorkout())

	completedAll, ok := s.ToggleEntry("e-2")
	require.True(t, ok)
	require.False(t, completedAll)
	require.True(t, s.IsCompleted("e-2"))

	completedAll, ok = s.ToggleEntry("e-2")
	require.True(t, ok)
	require.False(t, completedAll)
	require.False(t, s.IsCompleted("e-2"))
}

func TestToggleUnknownEntry(t *testing.T) {
	s := New(threeEntryWorkout())
	_, ok := s.ToggleEntry("nope")
	require.False(t, ok)
}

func TestCompletionFiresOnLastToggle(t *testing.T) {
	s := New(threeEntryWorkout())

	all, _ := s.ToggleEntry("e-1")
	require.False(t, all)
	all, _ = s.ToggleEntry("e-2")
	require.False(t, all)
	all, _ = s.ToggleEntry("e-3")
	require.True(t, all)
	require.True(t, s.AllComplete())
}

func TestCompletionRefiresAfterLeavingAllDone(t *testing.T) {
	s := New(threeEntryWorkout())
	s.ToggleEntry("e-1")
	s.ToggleEntry("e-2")

	all, _ := s.ToggleEntry("e-3")
	require.True(t, all)

	// Un-check then re-check the last item: level-triggered, fires again.
	all, _ = s.ToggleEntry("e-3")
	require.False(t, all)
	all, _ = s.ToggleEntry("e-3")
	require.True(t, all)
}

func TestAccordionSemantics(t *testing.T) {
	s := New(threeEntryWorkout())

	require.True(t, s.Expand("e-3"))
	require.Equal(t, "e-3", s.OpenEntry())

	// Opening another implicitly closes the previous.
	require.True(t, s.Expand("e-2"))
	require.Equal(t, "e-2", s.OpenEntry())

	require.False(t, s.Expand("missing"))
	require.Equal(t, "e-2", s.OpenEntry())

	s.Collapse()
	require.Empty(t, s.OpenEntry())
}

func TestCompletedIDsKeepDisplayOrder(t *testing.T) {
	s := New(threeEntryWorkout())
	s.ToggleEntry("e-3")
	s.ToggleEntry("e-1")

	require.Equal(t, []string{"e-1", "e-3"}, s.CompletedIDs())
}
