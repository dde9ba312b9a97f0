package session

// TimerPhase is the rest timer's lifecycle phase.
type TimerPhase string

const (
	TimerIdle      TimerPhase = "idle"
	TimerRunning   TimerPhase = "running"
	TimerPaused    TimerPhase = "paused"
	TimerCompleted TimerPhase = "completed"
)

// Timer is the pure countdown state machine for one exercise's rest
// interval. It knows nothing about wall clocks; the Runner feeds it tick
// events and schedules the completed-phase auto-reset.
type Timer struct {
	TotalSeconds     int
	RemainingSeconds int
	Phase            TimerPhase
}

// NewTimer returns an idle timer with the full interval remaining.
func NewTimer(totalSeconds int) *Timer {
	return &Timer{
		TotalSeconds:     totalSeconds,
		RemainingSeconds: totalSeconds,
		Phase:            TimerIdle,
	}
}

// Start moves an idle or paused timer to running. Returns false when the
// transition is invalid for the current phase.
func (t *Timer) Start() bool {
	if t.Phase != TimerIdle && t.Phase != TimerPaused {
		return false
	}
	if t.RemainingSeconds <= 0 {
		return false
	}
	t.Phase = TimerRunning
	return true
}

// Pause freezes a running timer, preserving the remaining time exactly.
func (t *Timer) Pause() bool {
	if t.Phase != TimerRunning {
		return false
	}
	t.Phase = TimerPaused
	return true
}

// Tick advances the countdown by one second. It reports whether this tick
// completed the timer, at which point the caller owes an auto-reset after
// the configured display window.
func (t *Timer) Tick() (completed bool) {
	if t.Phase != TimerRunning {
		return false
	}
	t.RemainingSeconds--
	if t.RemainingSeconds <= 0 {
		t.RemainingSeconds = 0
		t.Phase = TimerCompleted
		return true
	}
	return false
}

// Reset returns the timer to idle with the full interval, valid from any
// phase. Callers must cancel any pending auto-reset alongside.
func (t *Timer) Reset() {
	t.RemainingSeconds = t.TotalSeconds
	t.Phase = TimerIdle
}
