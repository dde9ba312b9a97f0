package domain

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VenueRepository captures persistence operations for venues.
type VenueRepository interface {
	// ListActive returns active venues ordered by name ascending, the
	// iteration order the geofence authorizer relies on.
	ListActive(ctx context.Context) ([]Venue, error)
	List(ctx context.Context) ([]Venue, error)
	Get(ctx context.Context, id string) (*Venue, error)
	Create(ctx context.Context, venue Venue) error
	Update(ctx context.Context, venue Venue) error
	Deactivate(ctx context.Context, id string, at time.Time) error
}

// CatalogRepository captures persistence operations for workouts and
// exercises.
type CatalogRepository interface {
	GetWorkout(ctx context.Context, id string) (*Workout, error)
	ListWorkouts(ctx context.Context) ([]Workout, error)
	CreateWorkout(ctx context.Context, workout Workout) error
	GetExercise(ctx context.Context, id string) (*Exercise, error)
	ListExercises(ctx context.Context) ([]Exercise, error)
	CreateExercise(ctx context.Context, exercise Exercise) error
}

// Service orchestrates venue and catalog workflows.
type Service struct {
	venues  VenueRepository
	catalog CatalogRepository
}

// NewService constructs a Service.
func NewService(venues VenueRepository, catalog CatalogRepository) *Service {
	return &Service{venues: venues, catalog: catalog}
}

// ActiveVenues returns the active venue list the authorizer consumes,
// sorted by name ascending regardless of repository ordering.
func (s *Service) ActiveVenues(ctx context.Context) ([]Venue, error) {
	venues, err := s.venues.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(venues, func(i, j int) bool {
		return strings.ToLower(venues[i].Name) < strings.ToLower(venues[j].Name)
	})
	return venues, nil
}

// ListVenues returns every venue, including inactive ones, for the admin UI.
func (s *Service) ListVenues(ctx context.Context) ([]Venue, error) {
	return s.venues.List(ctx)
}

// GetVenue fetches a venue by ID.
func (s *Service) GetVenue(ctx context.Context, id string) (*Venue, error) {
	venue, err := s.venues.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	return venue, nil
}

// CreateVenue validates and persists a new venue.
func (s *Service) CreateVenue(ctx context.Context, venue Venue) (Venue, error) {
	if err := venue.Validate(); err != nil {
		return Venue{}, err
	}
	now := time.Now().UTC()
	venue.ID = uuid.NewString()
	venue.Active = true
	venue.CreatedAt = now
	venue.UpdatedAt = now
	if err := s.venues.Create(ctx, venue); err != nil {
		return Venue{}, err
	}
	return venue, nil
}

// UpdateVenue validates and persists changes to an existing venue.
func (s *Service) UpdateVenue(ctx context.Context, venue Venue) (Venue, error) {
	if err := venue.Validate(); err != nil {
		return Venue{}, err
	}
	existing, err := s.venues.Get(ctx, venue.ID)
	if err != nil {
		return Venue{}, err
	}
	if existing == nil {
		return Venue{}, ErrVenueNotFound
	}
	venue.Active = existing.Active
	venue.CreatedAt = existing.CreatedAt
	venue.UpdatedAt = time.Now().UTC()
	if err := s.venues.Update(ctx, venue); err != nil {
		return Venue{}, err
	}
	return venue, nil
}

// DeactivateVenue soft-deletes a venue so it no longer participates in
// authorization or public listings.
func (s *Service) DeactivateVenue(ctx context.Context, id string) error {
	existing, err := s.venues.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrVenueNotFound
	}
	return s.venues.Deactivate(ctx, id, time.Now().UTC())
}

// GetWorkout fetches a workout with its entries hydrated.
func (s *Service) GetWorkout(ctx context.Context, id string) (*Workout, error) {
	workout, err := s.catalog.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// ListWorkouts returns the workout catalog.
func (s *Service) ListWorkouts(ctx context.Context) ([]Workout, error) {
	return s.catalog.ListWorkouts(ctx)
}

// CreateWorkout validates and persists a workout with its entries.
func (s *Service) CreateWorkout(ctx context.Context, workout Workout) (Workout, error) {
	now := time.Now().UTC()
	workout.ID = uuid.NewString()
	for i := range workout.Entries {
		if strings.TrimSpace(workout.Entries[i].ID) == "" {
			workout.Entries[i].ID = uuid.NewString()
		}
	}
	if err := workout.Validate(); err != nil {
		return Workout{}, err
	}
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if err := s.catalog.CreateWorkout(ctx, workout); err != nil {
		return Workout{}, err
	}
	return workout, nil
}

// GetExercise fetches an exercise by ID.
func (s *Service) GetExercise(ctx context.Context, id string) (*Exercise, error) {
	exercise, err := s.catalog.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

// ListExercises returns the exercise catalog.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	return s.catalog.ListExercises(ctx)
}

// CreateExercise validates and persists a new exercise.
func (s *Service) CreateExercise(ctx context.Context, exercise Exercise) (Exercise, error) {
	if strings.TrimSpace(exercise.Name) == "" {
		return Exercise{}, errors.New("name is required")
	}
	now := time.Now().UTC()
	exercise.ID = uuid.NewString()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	if err := s.catalog.CreateExercise(ctx, exercise); err != nil {
		return Exercise{}, err
	}
	return exercise, nil
}
