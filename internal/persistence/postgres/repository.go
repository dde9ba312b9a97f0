// Package postgres provides pgx-backed persistence for venues, the
// exercise catalog and workout completion counters.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/gymtag/internal/domain"
	"example.com/gymtag/internal/events"
)

// Repository implements domain.VenueRepository, domain.CatalogRepository
// and the consumer's completion recorder on top of a shared pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const venueColumns = `venue_id, name, address, latitude, longitude, radius_meters, active, logo_url, created_at, updated_at`

func scanVenue(row pgx.Row) (domain.Venue, error) {
	var v domain.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Address, &v.Latitude, &v.Longitude, &v.RadiusMeters, &v.Active, &v.LogoURL, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// ListActive returns active venues ordered by name ascending. The geofence
// authorizer iterates venues in this order, so the ordering is part of the
// contract, not cosmetics.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Venue, error) {
	const query = `SELECT ` + venueColumns + ` FROM venues WHERE active ORDER BY lower(name) ASC, venue_id ASC`
	return r.queryVenues(ctx, query)
}

// List returns every venue, including deactivated ones.
func (r *Repository) List(ctx context.Context) ([]domain.Venue, error) {
	const query = `SELECT ` + venueColumns + ` FROM venues ORDER BY lower(name) ASC, venue_id ASC`
	return r.queryVenues(ctx, query)
}

func (r *Repository) queryVenues(ctx context.Context, query string) ([]domain.Venue, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := make([]domain.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}

// Get retrieves a venue by ID, returning nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Venue, error) {
	const query = `SELECT ` + venueColumns + ` FROM venues WHERE venue_id=$1`

	venue, err := scanVenue(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &venue, nil
}

// Create persists a new venue.
func (r *Repository) Create(ctx context.Context, venue domain.Venue) error {
	const stmt = `INSERT INTO venues (` + venueColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.pool.Exec(ctx, stmt,
		venue.ID,
		venue.Name,
		venue.Address,
		venue.Latitude,
		venue.Longitude,
		venue.RadiusMeters,
		venue.Active,
		venue.LogoURL,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	return err
}

// Update rewrites a venue's mutable fields.
func (r *Repository) Update(ctx context.Context, venue domain.Venue) error {
	const stmt = `UPDATE venues
        SET name=$2, address=$3, latitude=$4, longitude=$5, radius_meters=$6, logo_url=$7, updated_at=$8
        WHERE venue_id=$1`

	tag, err := r.pool.Exec(ctx, stmt,
		venue.ID,
		venue.Name,
		venue.Address,
		venue.Latitude,
		venue.Longitude,
		venue.RadiusMeters,
		venue.LogoURL,
		venue.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVenueNotFound
	}
	return nil
}

// Deactivate soft-deletes a venue so historical access decisions keep a
// venue to point at.
func (r *Repository) Deactivate(ctx context.Context, id string, at time.Time) error {
	const stmt = `UPDATE venues SET active=FALSE, updated_at=$2 WHERE venue_id=$1`

	tag, err := r.pool.Exec(ctx, stmt, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVenueNotFound
	}
	return nil
}

const exerciseColumns = `exercise_id, name, description, youtube_url, youtube_id, thumbnail, category_id, category_name, created_at, updated_at`

func scanExercise(row pgx.Row) (domain.Exercise, error) {
	var e domain.Exercise
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.YouTubeURL, &e.YouTubeID, &e.Thumbnail, &e.CategoryID, &e.CategoryName, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// GetExercise retrieves an exercise by ID, returning nil when absent.
func (r *Repository) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	const query = `SELECT ` + exerciseColumns + ` FROM exercises WHERE exercise_id=$1`

	exercise, err := scanExercise(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &exercise, nil
}

// ListExercises returns the exercise catalog ordered by name.
func (r *Repository) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	const query = `SELECT ` + exerciseColumns + ` FROM exercises ORDER BY lower(name) ASC, exercise_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]domain.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}

// CreateExercise persists a new exercise.
func (r *Repository) CreateExercise(ctx context.Context, exercise domain.Exercise) error {
	const stmt = `INSERT INTO exercises (` + exerciseColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.pool.Exec(ctx, stmt,
		exercise.ID,
		exercise.Name,
		exercise.Description,
		exercise.YouTubeURL,
		exercise.YouTubeID,
		exercise.Thumbnail,
		exercise.CategoryID,
		exercise.CategoryName,
		exercise.CreatedAt,
		exercise.UpdatedAt,
	)
	return err
}

// GetWorkout retrieves a workout with its entries hydrated, including the
// referenced exercises, ordered by entry position. Returns nil when absent.
func (r *Repository) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	const query = `SELECT workout_id, name, description, created_at, updated_at FROM workouts WHERE workout_id=$1`

	var workout domain.Workout
	err := r.pool.QueryRow(ctx, query, id).Scan(&workout.ID, &workout.Name, &workout.Description, &workout.CreatedAt, &workout.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	entries, err := r.workoutEntries(ctx, workout.ID)
	if err != nil {
		return nil, err
	}
	workout.Entries = entries
	return &workout, nil
}

func (r *Repository) workoutEntries(ctx context.Context, workoutID string) ([]domain.WorkoutEntry, error) {
	const query = `SELECT we.entry_id, we.exercise_id, we.position, we.series, we.reps, we.rest, we.note,
            e.name, e.description, e.youtube_url, e.youtube_id, e.thumbnail, e.category_id, e.category_name, e.created_at, e.updated_at
        FROM workout_entries we
        JOIN exercises e ON e.exercise_id = we.exercise_id
        WHERE we.workout_id=$1
        ORDER BY we.position ASC`

	rows, err := r.pool.Query(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.WorkoutEntry, 0)
	for rows.Next() {
		var entry domain.WorkoutEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ExerciseID,
			&entry.Order,
			&entry.Series,
			&entry.Reps,
			&entry.Rest,
			&entry.Note,
			&entry.Exercise.Name,
			&entry.Exercise.Description,
			&entry.Exercise.YouTubeURL,
			&entry.Exercise.YouTubeID,
			&entry.Exercise.Thumbnail,
			&entry.Exercise.CategoryID,
			&entry.Exercise.CategoryName,
			&entry.Exercise.CreatedAt,
			&entry.Exercise.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entry.Exercise.ID = entry.ExerciseID
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListWorkouts returns the workout catalog with entries hydrated.
func (r *Repository) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	const query = `SELECT workout_id, name, description, created_at, updated_at
        FROM workouts ORDER BY lower(name) ASC, workout_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	workouts := make([]domain.Workout, 0)
	for rows.Next() {
		var workout domain.Workout
		if err := rows.Scan(&workout.ID, &workout.Name, &workout.Description, &workout.CreatedAt, &workout.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range workouts {
		entries, err := r.workoutEntries(ctx, workouts[i].ID)
		if err != nil {
			return nil, err
		}
		workouts[i].Entries = entries
	}
	return workouts, nil
}

// CreateWorkout persists the workout and its entries inside a single
// transaction.
func (r *Repository) CreateWorkout(ctx context.Context, workout domain.Workout) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const insertWorkout = `INSERT INTO workouts (workout_id, name, description, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5)`

	if _, err = tx.Exec(ctx, insertWorkout, workout.ID, workout.Name, workout.Description, workout.CreatedAt, workout.UpdatedAt); err != nil {
		return err
	}

	const insertEntry = `INSERT INTO workout_entries (entry_id, workout_id, exercise_id, position, series, reps, rest, note)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	for _, entry := range workout.Entries {
		if _, err = tx.Exec(ctx, insertEntry,
			entry.ID,
			workout.ID,
			entry.ExerciseID,
			entry.Order,
			entry.Series,
			entry.Reps,
			entry.Rest,
			entry.Note,
		); err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	return err
}

// RecordWorkoutCompletion bumps the completion counter for a workout.
// The consumer replays committed offsets at-least-once, so the upsert
// keys on workout_id rather than inserting a row per event.
func (r *Repository) RecordWorkoutCompletion(ctx context.Context, event events.WorkoutCompleted) error {
	const stmt = `INSERT INTO workout_completions (workout_id, completions, last_session_id, last_completed)
        VALUES ($1, 1, $2, $3)
        ON CONFLICT (workout_id) DO UPDATE
        SET completions = workout_completions.completions + 1,
            last_session_id = EXCLUDED.last_session_id,
            last_completed = EXCLUDED.last_completed`

	_, err := r.pool.Exec(ctx, stmt, event.WorkoutID, nullIfEmpty(event.SessionID), event.CompletedAt)
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
