package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/gymtag/internal/auth"
	"example.com/gymtag/internal/domain"
)

// requireScope loads claims and checks the scope, writing the error
// response itself. Read access is implied by the matching write scope.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if claims.HasScope(scope) {
		return true
	}
	if scope == auth.ScopeVenuesRead && claims.HasScope(auth.ScopeVenuesWrite) {
		return true
	}
	if scope == auth.ScopeCatalogRead && claims.HasScope(auth.ScopeCatalogWrite) {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
	return false
}

// VenueRequest is the payload for venue create and update.
type VenueRequest struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
	LogoURL      string  `json:"logo_url"`
}

func (r VenueRequest) toVenue() domain.Venue {
	return domain.Venue{
		Name:         strings.TrimSpace(r.Name),
		Address:      strings.TrimSpace(r.Address),
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		RadiusMeters: r.RadiusMeters,
		LogoURL:      strings.TrimSpace(r.LogoURL),
	}
}

// Validate ensures request correctness.
func (r VenueRequest) Validate() error {
	return r.toVenue().Validate()
}

func (h *Handler) venues(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeVenuesRead) {
			return
		}
		venues, err := h.service.ListVenues(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		items := make([]VenueView, 0, len(venues))
		for _, venue := range venues {
			items = append(items, toVenueView(venue))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeVenuesWrite) {
			return
		}
		var req VenueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		venue, err := h.service.CreateVenue(r.Context(), req.toVenue())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toVenueView(venue))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) venueByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/venues/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing venue id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeVenuesRead) {
			return
		}
		venue, err := h.service.GetVenue(r.Context(), id)
		if err != nil {
			h.writeVenueError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVenueView(*venue))
	case http.MethodPut:
		if !requireScope(w, r, auth.ScopeVenuesWrite) {
			return
		}
		var req VenueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		venue := req.toVenue()
		venue.ID = id
		updated, err := h.service.UpdateVenue(r.Context(), venue)
		if err != nil {
			h.writeVenueError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVenueView(updated))
	case http.MethodDelete:
		if !requireScope(w, r, auth.ScopeVenuesWrite) {
			return
		}
		if err := h.service.DeactivateVenue(r.Context(), id); err != nil {
			h.writeVenueError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) writeVenueError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrVenueNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "venue not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "server_error", err.Error())
}

// WorkoutEntryRequest is one entry of a workout create payload.
type WorkoutEntryRequest struct {
	ExerciseID string `json:"exercise_id"`
	Order      int    `json:"order"`
	Series     int    `json:"series"`
	Reps       string `json:"reps"`
	Rest       string `json:"rest"`
	Note       string `json:"note"`
}

// WorkoutRequest is the payload for workout create.
type WorkoutRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Entries     []WorkoutEntryRequest `json:"entries"`
}

// Validate ensures request correctness; ordering invariants are enforced
// by the domain after entry IDs are assigned.
func (r WorkoutRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if len(r.Entries) == 0 {
		return errors.New("entries must not be empty")
	}
	for _, entry := range r.Entries {
		if strings.TrimSpace(entry.ExerciseID) == "" {
			return errors.New("entries: exercise_id is required")
		}
		if entry.Order < 1 || entry.Order > len(r.Entries) {
			return errors.New("entries: order must be 1-based and contiguous")
		}
	}
	return nil
}

func (r WorkoutRequest) toWorkout() domain.Workout {
	workout := domain.Workout{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Entries:     make([]domain.WorkoutEntry, 0, len(r.Entries)),
	}
	for _, entry := range r.Entries {
		workout.Entries = append(workout.Entries, domain.WorkoutEntry{
			ExerciseID: entry.ExerciseID,
			Order:      entry.Order,
			Series:     entry.Series,
			Reps:       entry.Reps,
			Rest:       entry.Rest,
			Note:       entry.Note,
		})
	}
	return workout
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeCatalogRead) {
			return
		}
		workouts, err := h.service.ListWorkouts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		items := make([]WorkoutView, 0, len(workouts))
		for _, workout := range workouts {
			items = append(items, h.toWorkoutView(workout))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeCatalogWrite) {
			return
		}
		var req WorkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		workout, err := h.service.CreateWorkout(r.Context(), req.toWorkout())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, h.toWorkoutView(workout))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeCatalogRead) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}

	workout, err := h.service.GetWorkout(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.toWorkoutView(*workout))
}

// ExerciseRequest is the payload for exercise create.
type ExerciseRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	YouTubeURL   string `json:"youtube_url"`
	YouTubeID    string `json:"youtube_id"`
	Thumbnail    string `json:"thumbnail"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Validate ensures request correctness.
func (r ExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (r ExerciseRequest) toExercise() domain.Exercise {
	return domain.Exercise{
		Name:         strings.TrimSpace(r.Name),
		Description:  strings.TrimSpace(r.Description),
		YouTubeURL:   strings.TrimSpace(r.YouTubeURL),
		YouTubeID:    strings.TrimSpace(r.YouTubeID),
		Thumbnail:    strings.TrimSpace(r.Thumbnail),
		CategoryID:   strings.TrimSpace(r.CategoryID),
		CategoryName: strings.TrimSpace(r.CategoryName),
	}
}

func (h *Handler) exercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !requireScope(w, r, auth.ScopeCatalogRead) {
			return
		}
		exercises, err := h.service.ListExercises(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		items := make([]ExerciseView, 0, len(exercises))
		for _, exercise := range exercises {
			items = append(items, toExerciseView(exercise))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	case http.MethodPost:
		if !requireScope(w, r, auth.ScopeCatalogWrite) {
			return
		}
		var req ExerciseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		exercise, err := h.service.CreateExercise(r.Context(), req.toExercise())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toExerciseView(exercise))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) exerciseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeCatalogRead) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/exercises/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing exercise id")
		return
	}

	exercise, err := h.service.GetExercise(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrExerciseNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "exercise not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toExerciseView(*exercise))
}
