// Package events defines the notification payloads the service publishes
// and the Kafka publisher that carries them.
package events

import "time"

// Event types and the topics that carry them.
const (
	TypeAccessChecked    = "access.checked"
	TypeWorkoutCompleted = "workout.completed"

	TopicAccess  = "gym_access_events"
	TopicSession = "workout_session_events"
)

// AccessChecked is emitted for every geofence authorization decision.
type AccessChecked struct {
	Authorized bool      `json:"authorized"`
	VenueID    string    `json:"venue_id,omitempty"`
	VenueName  string    `json:"venue_name,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CheckedAt  time.Time `json:"checked_at"`
}

// WorkoutCompleted is emitted each time a session reaches the
// all-entries-done state.
type WorkoutCompleted struct {
	SessionID   string    `json:"session_id"`
	WorkoutID   string    `json:"workout_id"`
	WorkoutName string    `json:"workout_name"`
	EntryCount  int       `json:"entry_count"`
	CompletedAt time.Time `json:"completed_at"`
}
