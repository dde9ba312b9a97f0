package api

import (
	"time"

	"example.com/gymtag/internal/domain"
	"example.com/gymtag/internal/session"
)

// VenueView exposes venue details. Coordinates are included for the admin
// surface; the public access check only ever returns branding fields.
type VenueView struct {
	VenueID      string    `json:"venue_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters int       `json:"radius_meters"`
	Active       bool      `json:"active"`
	LogoURL      string    `json:"logo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toVenueView(venue domain.Venue) VenueView {
	return VenueView{
		VenueID:      venue.ID,
		Name:         venue.Name,
		Address:      venue.Address,
		Latitude:     venue.Latitude,
		Longitude:    venue.Longitude,
		RadiusMeters: venue.RadiusMeters,
		Active:       venue.Active,
		LogoURL:      venue.LogoURL,
		CreatedAt:    venue.CreatedAt,
		UpdatedAt:    venue.UpdatedAt,
	}
}

// ExerciseView exposes exercise details.
type ExerciseView struct {
	ExerciseID   string    `json:"exercise_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	YouTubeURL   string    `json:"youtube_url,omitempty"`
	YouTubeID    string    `json:"youtube_id,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	CategoryID   string    `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toExerciseView(exercise domain.Exercise) ExerciseView {
	return ExerciseView{
		ExerciseID:   exercise.ID,
		Name:         exercise.Name,
		Description:  exercise.Description,
		YouTubeURL:   exercise.YouTubeURL,
		YouTubeID:    exercise.YouTubeID,
		Thumbnail:    exercise.Thumbnail,
		CategoryID:   exercise.CategoryID,
		CategoryName: exercise.CategoryName,
		CreatedAt:    exercise.CreatedAt,
		UpdatedAt:    exercise.UpdatedAt,
	}
}

// WorkoutEntryView exposes one entry with its exercise hydrated and the
// parsed rest interval alongside the raw text.
type WorkoutEntryView struct {
	EntryID     string       `json:"entry_id"`
	Order       int          `json:"order"`
	Series      int          `json:"series,omitempty"`
	Reps        string       `json:"reps,omitempty"`
	Rest        string       `json:"rest,omitempty"`
	RestSeconds int          `json:"rest_seconds,omitempty"`
	Note        string       `json:"note,omitempty"`
	Exercise    ExerciseView `json:"exercise"`
}

// WorkoutView exposes a workout with its entries and the estimated
// duration, both in minutes and in display form.
type WorkoutView struct {
	WorkoutID         string             `json:"workout_id"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Entries           []WorkoutEntryView `json:"entries"`
	EstimatedMinutes  int                `json:"estimated_minutes"`
	EstimatedDuration string             `json:"estimated_duration"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func (h *Handler) toWorkoutView(workout domain.Workout) WorkoutView {
	minutes := session.EstimateMinutes(&workout, h.sessionCfg)
	view := WorkoutView{
		WorkoutID:         workout.ID,
		Name:              workout.Name,
		Description:       workout.Description,
		Entries:           make([]WorkoutEntryView, 0, len(workout.Entries)),
		EstimatedMinutes:  minutes,
		EstimatedDuration: session.FormatDuration(minutes),
		CreatedAt:         workout.CreatedAt,
		UpdatedAt:         workout.UpdatedAt,
	}
	for _, entry := range workout.Entries {
		view.Entries = append(view.Entries, WorkoutEntryView{
			EntryID:     entry.ID,
			Order:       entry.Order,
			Series:      entry.Series,
			Reps:        entry.Reps,
			Rest:        entry.Rest,
			RestSeconds: session.ParseRestSpec(entry.Rest),
			Note:        entry.Note,
			Exercise:    toExerciseView(entry.Exercise),
		})
	}
	return view
}
