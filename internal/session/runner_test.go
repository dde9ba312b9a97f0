package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/gymtag/internal/domain"
)

// fastConfig compresses the tick and auto-reset delays so wall-clock
// behaviour can be observed without waiting real seconds.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.TickInterval = 5 * time.Millisecond
	cfg.CompletedResetDelay = 40 * time.Millisecond
	return cfg
}

func timedWorkout() *domain.Workout {
	return &domain.Workout{
		ID:   "w-1",
		Name: "Treino A",
		Entries: []domain.WorkoutEntry{
			{ID: "e-1", Order: 1, Rest: "3s"},
			{ID: "e-2", Order: 2},
		},
	}
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.Fail(t, "condition not reached within timeout")
}

func TestRunnerCountdownCompletesAndAutoResets(t *testing.T) {
	r := NewRunner(timedWorkout(), fastConfig(), nil)
	defer r.Close()

	view, err := r.Apply(Event{Type: EventTimerStart, EntryID: "e-1"})
	require.NoError(t, err)
	require.Len(t, view.Timers, 1)
	require.Equal(t, TimerRunning, view.Timers[0].Phase)
	require.Equal(t, 3, view.Timers[0].TotalSeconds)

	eventually(t, time.Second, func() bool {
		v := r.View()
		return len(v.Timers) == 1 && v.Timers[0].Phase == TimerCompleted
	})

	// After the completed display window the timer returns to idle with
	// the full interval restored.
	eventually(t, time.Second, func() bool {
		v := r.View()
		return v.Timers[0].Phase == TimerIdle && v.Timers[0].RemainingSeconds == 3
	})
}

func TestRunnerResetCancelsAutoReset(t *testing.T) {
	r := NewRunner(timedWorkout(), fastConfig(), nil)
	defer r.Close()

	_, err := r.Apply(Event{Type: EventTimerStart, EntryID: "e-1"})
	require.NoError(t, err)

	eventually(t, time.Second, func() bool {
		return r.View().Timers[0].Phase == TimerCompleted
	})

	view, err := r.Apply(Event{Type: EventTimerReset, EntryID: "e-1"})
	require.NoError(t, err)
	require.Equal(t, TimerIdle, view.Timers[0].Phase)
	require.Equal(t, 3, view.Timers[0].RemainingSeconds)
}

func TestRunnerPauseFreezesCountdown(t *testing.T) {
	cfg := fastConfig()
	cfg.TickInterval = time.Hour // no ticks during this test
	r := NewRunner(timedWorkout(), cfg, nil)
	defer r.Close()

	_, err := r.Apply(Event{Type: EventTimerStart, EntryID: "e-1"})
	require.NoError(t, err)

	view, err := r.Apply(Event{Type: EventTimerPause, EntryID: "e-1"})
	require.NoError(t, err)
	require.Equal(t, TimerPaused, view.Timers[0].Phase)
	require.Equal(t, 3, view.Timers[0].RemainingSeconds)
}

func TestRunnerTimerEventsRequireRestSpec(t *testing.T) {
	r := NewRunner(timedWorkout(), fastConfig(), nil)
	defer r.Close()

	_, err := r.Apply(Event{Type: EventTimerStart, EntryID: "e-2"})
	require.ErrorIs(t, err, ErrNoRestSpec)

	_, err = r.Apply(Event{Type: EventTimerStart, EntryID: "ghost"})
	require.ErrorIs(t, err, ErrUnknownEntry)
}

func TestRunnerInvalidTimerTransition(t *testing.T) {
	cfg := fastConfig()
	cfg.TickInterval = time.Hour
	r := NewRunner(timedWorkout(), cfg, nil)
	defer r.Close()

	_, err := r.Apply(Event{Type: EventTimerPause, EntryID: "e-1"})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRunnerCompletionCallback(t *testing.T) {
	completions := make(chan struct{}, 4)
	r := NewRunner(timedWorkout(), fastConfig(), func() { completions <- struct{}{} })
	defer r.Close()

	_, err := r.Apply(Event{Type: EventToggle, EntryID: "e-1"})
	require.NoError(t, err)
	require.Empty(t, completions)

	view, err := r.Apply(Event{Type: EventToggle, EntryID: "e-2"})
	require.NoError(t, err)
	require.True(t, view.AllComplete)
	require.Len(t, completions, 1)

	// Leave and re-reach all-done: fires again.
	_, err = r.Apply(Event{Type: EventToggle, EntryID: "e-2"})
	require.NoError(t, err)
	_, err = r.Apply(Event{Type: EventToggle, EntryID: "e-2"})
	require.NoError(t, err)
	require.Len(t, completions, 2)
}

func TestRunnerAccordionThroughEvents(t *testing.T) {
	cfg := fastConfig()
	cfg.TickInterval = time.Hour
	r := NewRunner(timedWorkout(), cfg, nil)
	defer r.Close()

	view := r.View()
	require.Equal(t, "e-1", view.OpenEntryID)

	view, err := r.Apply(Event{Type: EventExpand, EntryID: "e-2"})
	require.NoError(t, err)
	require.Equal(t, "e-2", view.OpenEntryID)

	view, err = r.Apply(Event{Type: EventCollapse})
	require.NoError(t, err)
	require.Empty(t, view.OpenEntryID)
}

func TestStoreCreateGetDelete(t *testing.T) {
	store := NewStore(fastConfig(), time.Minute, nil)
	defer store.Close()

	id, view := store.Create(timedWorkout())
	require.NotEmpty(t, id)
	require.Equal(t, "w-1", view.WorkoutID)
	require.Equal(t, "e-1", view.OpenEntryID)

	runner, ok := store.Get(id)
	require.True(t, ok)
	require.NotNil(t, runner)

	store.Delete(id)
	_, ok = store.Get(id)
	require.False(t, ok)
}

func TestStoreEvictsIdleSessions(t *testing.T) {
	store := NewStore(fastConfig(), 20*time.Millisecond, nil)
	defer store.Close()

	id, _ := store.Create(timedWorkout())

	// Polling Len rather than Get: Get would refresh the TTL.
	eventually(t, time.Second, func() bool {
		return store.Len() == 0
	})
	_, ok := store.Get(id)
	require.False(t, ok)
}
