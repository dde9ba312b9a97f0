package session

import (
	"errors"
	"sync"
	"time"

	"example.com/gymtag/internal/domain"
)

// EventType enumerates the interactions a view can send to its session.
type EventType string

const (
	EventToggle     EventType = "toggle"
	EventExpand     EventType = "expand"
	EventCollapse   EventType = "collapse"
	EventTimerStart EventType = "timer_start"
	EventTimerPause EventType = "timer_pause"
	EventTimerReset EventType = "timer_reset"
)

// Event is one user interaction. EntryID is required for everything but
// collapse.
type Event struct {
	Type    EventType
	EntryID string
}

var (
	// ErrUnknownEntry is returned for an entry ID outside the workout.
	ErrUnknownEntry = errors.New("unknown workout entry")
	// ErrInvalidEvent is returned for an unrecognized event type.
	ErrInvalidEvent = errors.New("invalid session event")
	// ErrInvalidTransition is returned when a timer event is not valid in
	// the timer's current phase.
	ErrInvalidTransition = errors.New("invalid timer transition")
	// ErrNoRestSpec is returned when a timer event targets an entry
	// without a rest interval.
	ErrNoRestSpec = errors.New("entry has no rest interval")
)

// TimerView is a read-only timer snapshot.
type TimerView struct {
	EntryID          string     `json:"entry_id"`
	Phase            TimerPhase `json:"phase"`
	TotalSeconds     int        `json:"total_seconds"`
	RemainingSeconds int        `json:"remaining_seconds"`
}

// View is a read-only session snapshot handed to the transport layer.
type View struct {
	WorkoutID         string      `json:"workout_id"`
	CompletedEntryIDs []string    `json:"completed_entry_ids"`
	OpenEntryID       string      `json:"open_entry_id,omitempty"`
	AllComplete       bool        `json:"all_complete"`
	Timers            []TimerView `json:"timers,omitempty"`
}

// Runner owns one session plus its lazily-created rest timers and drives
// the wall-clock side: the one-second countdown tick and the completed
// auto-reset. All state is guarded by mu; the tick goroutine and pending
// auto-resets are cancelled on Close so nothing outlives the view.
type Runner struct {
	cfg     Config
	workout *domain.Workout

	mu         sync.Mutex
	session    *Session
	timers     map[string]*Timer
	autoResets map[string]*time.Timer
	closed     bool

	onComplete func()

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRunner creates a runner for one page view. onComplete fires each
// time the session reaches the all-entries-done state; it may be nil.
func NewRunner(workout *domain.Workout, cfg Config, onComplete func()) *Runner {
	r := &Runner{
		cfg:        cfg,
		workout:    workout,
		session:    New(workout),
		timers:     make(map[string]*Timer),
		autoResets: make(map[string]*time.Timer),
		onComplete: onComplete,
		done:       make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Apply processes one interaction and returns the resulting snapshot.
func (r *Runner) Apply(ev Event) (View, error) {
	r.mu.Lock()

	var fireComplete bool
	var err error

	switch ev.Type {
	case EventToggle:
		completedAll, ok := r.session.ToggleEntry(ev.EntryID)
		if !ok {
			err = ErrUnknownEntry
		}
		fireComplete = completedAll
	case EventExpand:
		if !r.session.Expand(ev.EntryID) {
			err = ErrUnknownEntry
		}
	case EventCollapse:
		r.session.Collapse()
	case EventTimerStart:
		var timer *Timer
		timer, err = r.timerFor(ev.EntryID)
		if err == nil && !timer.Start() {
			err = ErrInvalidTransition
		}
	case EventTimerPause:
		var timer *Timer
		timer, err = r.timerFor(ev.EntryID)
		if err == nil && !timer.Pause() {
			err = ErrInvalidTransition
		}
	case EventTimerReset:
		var timer *Timer
		timer, err = r.timerFor(ev.EntryID)
		if err == nil {
			timer.Reset()
			r.cancelAutoResetLocked(ev.EntryID)
		}
	default:
		err = ErrInvalidEvent
	}

	view := r.viewLocked()
	r.mu.Unlock()

	if err != nil {
		return view, err
	}
	if fireComplete && r.onComplete != nil {
		r.onComplete()
	}
	return view, nil
}

// View returns the current snapshot.
func (r *Runner) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

// Close tears the runner down: the tick goroutine exits and pending
// auto-resets are cancelled. Safe to call more than once.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()

		r.mu.Lock()
		r.closed = true
		for entryID := range r.autoResets {
			r.cancelAutoResetLocked(entryID)
		}
		r.mu.Unlock()
	})
}

// timerFor returns the entry's timer, creating it lazily from the parsed
// rest spec. Must be called with mu held.
func (r *Runner) timerFor(entryID string) (*Timer, error) {
	if timer, ok := r.timers[entryID]; ok {
		return timer, nil
	}
	entry := r.workout.EntryByID(entryID)
	if entry == nil {
		return nil, ErrUnknownEntry
	}
	total := ParseRestSpec(entry.Rest)
	if total <= 0 {
		return nil, ErrNoRestSpec
	}
	timer := NewTimer(total)
	r.timers[entryID] = timer
	return timer, nil
}

func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick advances every running timer by one second and schedules the
// auto-reset for any that just completed.
func (r *Runner) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for entryID, timer := range r.timers {
		if timer.Tick() {
			r.scheduleAutoResetLocked(entryID)
		}
	}
}

func (r *Runner) scheduleAutoResetLocked(entryID string) {
	r.cancelAutoResetLocked(entryID)
	r.autoResets[entryID] = time.AfterFunc(r.cfg.CompletedResetDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		delete(r.autoResets, entryID)
		if timer, ok := r.timers[entryID]; ok && timer.Phase == TimerCompleted {
			timer.Reset()
		}
	})
}

func (r *Runner) cancelAutoResetLocked(entryID string) {
	if pending, ok := r.autoResets[entryID]; ok {
		pending.Stop()
		delete(r.autoResets, entryID)
	}
}

func (r *Runner) viewLocked() View {
	view := View{
		WorkoutID:         r.workout.ID,
		CompletedEntryIDs: r.session.CompletedIDs(),
		OpenEntryID:       r.session.OpenEntry(),
		AllComplete:       r.session.AllComplete(),
	}
	for _, entry := range r.workout.Entries {
		if timer, ok := r.timers[entry.ID]; ok {
			view.Timers = append(view.Timers, TimerView{
				EntryID:          entry.ID,
				Phase:            timer.Phase,
				TotalSeconds:     timer.TotalSeconds,
				RemainingSeconds: timer.RemainingSeconds,
			})
		}
	}
	return view
}
