package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"example.com/gymtag/internal/events"
)

// CompletionRecorder is the persistence operation the stats handler needs.
type CompletionRecorder interface {
	RecordWorkoutCompletion(ctx context.Context, event events.WorkoutCompleted) error
}

// StatsHandler folds workout.completed events into per-workout completion
// statistics. Other event types are acknowledged without action.
type StatsHandler struct {
	recorder CompletionRecorder
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(recorder CompletionRecorder) *StatsHandler {
	return &StatsHandler{recorder: recorder}
}

// Handle processes one decoded message.
func (h *StatsHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.TypeWorkoutCompleted {
		return nil
	}

	var event events.WorkoutCompleted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode workout.completed payload: %w", err)
	}
	if event.WorkoutID == "" {
		return fmt.Errorf("workout.completed event missing workout_id (offset %d)", msg.Offset)
	}

	return h.recorder.RecordWorkoutCompletion(ctx, event)
}
