// Package observability registers the service-level Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	accessChecksCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymtag",
		Subsystem: "access",
		Name:      "checks_total",
		Help:      "Geofence authorization decisions by outcome.",
	}, []string{"outcome"})
	sessionsStartedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymtag",
		Subsystem: "sessions",
		Name:      "started_total",
		Help:      "Workout sessions created.",
	})
	workoutsCompletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymtag",
		Subsystem: "sessions",
		Name:      "workouts_completed_total",
		Help:      "Times a session reached the all-entries-done state.",
	})
	chatRelayFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymtag",
		Subsystem: "chat",
		Name:      "relay_failures_total",
		Help:      "Chat relay requests that fell back to the canned answer.",
	})
)

func init() {
	prometheus.MustRegister(
		accessChecksCounter,
		sessionsStartedCounter,
		workoutsCompletedCounter,
		chatRelayFailuresCounter,
	)
}

// RecordAccessCheck counts an authorization decision. Outcome is one of
// "authorized", "out_of_range", "no_venues_registered" or a location
// failure code.
func RecordAccessCheck(outcome string) {
	accessChecksCounter.WithLabelValues(outcome).Inc()
}

// RecordSessionStarted counts a new workout session.
func RecordSessionStarted() {
	sessionsStartedCounter.Inc()
}

// RecordWorkoutCompleted counts a completion transition.
func RecordWorkoutCompleted() {
	workoutsCompletedCounter.Inc()
}

// RecordChatRelayFailure counts a failed relay round trip.
func RecordChatRelayFailure() {
	chatRelayFailuresCounter.Inc()
}
