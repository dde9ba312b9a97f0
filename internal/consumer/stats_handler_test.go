package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/gymtag/internal/events"
)

type stubCompletionRecorder struct {
	recorded []events.WorkoutCompleted
	err      error
}

func (r *stubCompletionRecorder) RecordWorkoutCompletion(_ context.Context, event events.WorkoutCompleted) error {
	r.recorded = append(r.recorded, event)
	return r.err
}

func TestStatsHandlerRecordsCompletion(t *testing.T) {
	recorder := &stubCompletionRecorder{}
	handler := NewStatsHandler(recorder)

	payload, err := json.Marshal(events.WorkoutCompleted{
		WorkoutID: "w-1",
		SessionID: "s-1",
	})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), Message{
		EventType: events.TypeWorkoutCompleted,
		Key:       "w-1",
		Payload:   payload,
	})
	require.NoError(t, err)

	require.Len(t, recorder.recorded, 1)
	require.Equal(t, "w-1", recorder.recorded[0].WorkoutID)
	require.Equal(t, "s-1", recorder.recorded[0].SessionID)
}

func TestStatsHandlerIgnoresOtherEventTypes(t *testing.T) {
	recorder := &stubCompletionRecorder{}
	handler := NewStatsHandler(recorder)

	err := handler.Handle(context.Background(), Message{
		EventType: events.TypeAccessChecked,
		Payload:   json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	require.Empty(t, recorder.recorded)
}

func TestStatsHandlerRejectsMissingWorkoutID(t *testing.T) {
	recorder := &stubCompletionRecorder{}
	handler := NewStatsHandler(recorder)

	err := handler.Handle(context.Background(), Message{
		EventType: events.TypeWorkoutCompleted,
		Payload:   json.RawMessage(`{"session_id":"s-1"}`),
	})
	require.Error(t, err)
	require.Empty(t, recorder.recorded)
}

func TestStatsHandlerPropagatesRecorderError(t *testing.T) {
	recorder := &stubCompletionRecorder{err: errors.New("db down")}
	handler := NewStatsHandler(recorder)

	payload, err := json.Marshal(events.WorkoutCompleted{WorkoutID: "w-1"})
	require.NoError(t, err)

	err = handler.Handle(context.Background(), Message{
		EventType: events.TypeWorkoutCompleted,
		Payload:   payload,
	})
	require.Error(t, err)
}
