// Package api exposes the HTTP handlers for the gymtag service: the
// public member-facing surface and the authenticated admin surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"example.com/gymtag/internal/chat"
	"example.com/gymtag/internal/domain"
	"example.com/gymtag/internal/events"
	"example.com/gymtag/internal/geofence"
	"example.com/gymtag/internal/observability"
	"example.com/gymtag/internal/session"
)

// Relay answers free-text questions about a workout or exercise.
type Relay interface {
	Ask(ctx context.Context, question, contextText string, kind chat.Kind) (string, error)
}

// Handler coordinates HTTP requests with the domain service, the session
// store and the chat relay.
type Handler struct {
	service    *domain.Service
	sessions   *session.Store
	sessionCfg session.Config
	relay      Relay
	publisher  events.Publisher
	logger     *log.Logger
}

// NewHandler builds a Handler. relay may be nil when no chat provider is
// configured.
func NewHandler(service *domain.Service, sessions *session.Store, sessionCfg session.Config, relay Relay, publisher events.Publisher, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		service:    service,
		sessions:   sessions,
		sessionCfg: sessionCfg,
		relay:      relay,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/public/access/check", h.accessCheck)
	mux.HandleFunc("/v1/public/workouts/", h.publicWorkout)
	mux.HandleFunc("/v1/public/exercises/", h.publicExercise)
	mux.HandleFunc("/v1/public/sessions", h.sessionCollection)
	mux.HandleFunc("/v1/public/sessions/", h.sessionByID)
	mux.HandleFunc("/v1/public/chat", h.chat)
	mux.HandleFunc("/v1/venues", h.venues)
	mux.HandleFunc("/v1/venues/", h.venueByID)
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/v1/exercises", h.exercises)
	mux.HandleFunc("/v1/exercises/", h.exerciseByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// User-facing copy is Brazilian Portuguese, matching the member app.
var denyMessages = map[string]string{
	string(geofence.ReasonOutOfRange): "Você precisa estar dentro de uma academia cadastrada para acessar este conteúdo.",
	string(geofence.ReasonNoVenues):   "Nenhuma academia cadastrada. Entre em contato com o administrador.",
}

var failureMessages = map[geofence.FailureCode]string{
	geofence.FailurePermissionDenied:    "Permissão de localização negada. Por favor, permita o acesso à sua localização para continuar.",
	geofence.FailurePositionUnavailable: "Não foi possível determinar sua localização. Verifique sua conexão e tente novamente.",
	geofence.FailureTimeout:             "Tempo de espera esgotado. Tente novamente.",
	geofence.FailureUnknown:             "Erro ao verificar localização. Tente novamente.",
}

// AccessCheckRequest is the payload for POST /v1/public/access/check.
// Either coordinates or a failure report, never both.
type AccessCheckRequest struct {
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Failure     string   `json:"failure,omitempty"`
	FailureCode *int     `json:"failure_code,omitempty"`
}

// Validate ensures request correctness.
func (r AccessCheckRequest) Validate() error {
	if r.Failure != "" || r.FailureCode != nil {
		return nil
	}
	if r.Latitude == nil || r.Longitude == nil {
		return errors.New("latitude and longitude are required")
	}
	if *r.Latitude < -90 || *r.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if *r.Longitude < -180 || *r.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	return nil
}

// AccessCheckResponse describes an authorization outcome. Exactly one of
// Venue, Reason or Failure is set.
type AccessCheckResponse struct {
	Authorized bool       `json:"authorized"`
	Venue      *VenueView `json:"venue,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Failure    string     `json:"failure,omitempty"`
	Message    string     `json:"message,omitempty"`
}

func (h *Handler) accessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req AccessCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	// Location acquisition failed client-side; the authorizer never runs.
	if req.Failure != "" || req.FailureCode != nil {
		code := geofence.ParseFailure(req.Failure)
		if req.Failure == "" {
			code = geofence.ClassifyFailure(*req.FailureCode)
		}
		observability.RecordAccessCheck(string(code))
		writeJSON(w, http.StatusOK, AccessCheckResponse{
			Failure: string(code),
			Message: failureMessages[code],
		})
		return
	}

	venues, err := h.service.ActiveVenues(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	loc := geofence.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	decision := geofence.Authorize(loc, venues)

	resp := AccessCheckResponse{Authorized: decision.Authorized}
	event := events.AccessChecked{
		Authorized: decision.Authorized,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		CheckedAt:  time.Now().UTC(),
	}

	if decision.Authorized {
		view := toVenueView(*decision.Venue)
		resp.Venue = &view
		event.VenueID = decision.Venue.ID
		event.VenueName = decision.Venue.Name
		observability.RecordAccessCheck("authorized")
	} else {
		resp.Reason = string(decision.Reason)
		resp.Message = denyMessages[resp.Reason]
		event.Reason = resp.Reason
		observability.RecordAccessCheck(resp.Reason)
	}

	if h.publisher != nil {
		key := event.VenueID
		if key == "" {
			key = resp.Reason
		}
		if err := h.publisher.Publish(r.Context(), events.TopicAccess, events.TypeAccessChecked, key, event); err != nil {
			h.logger.Printf("publish access event: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) publicWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/public/workouts/")
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

func (h *Handler) publicExercise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/public/exercises/")
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

// CreateSessionRequest is the payload for POST /v1/public/sessions.
type CreateSessionRequest struct {
	WorkoutID string `json:"workout_id"`
}

// Validate ensures request correctness.
func (r CreateSessionRequest) Validate() error {
	if strings.TrimSpace(r.WorkoutID) == "" {
		return errors.New("workout_id is required")
	}
	return nil
}

// SessionResponse pairs the opaque session ID with its current snapshot.
type SessionResponse struct {
	SessionID string       `json:"session_id"`
	State     session.View `json:"state"`
}

func (h *Handler) sessionCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	workout, err := h.service.GetWorkout(r.Context(), req.WorkoutID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	id, view := h.sessions.Create(workout)
	observability.RecordSessionStarted()
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id, State: view})
}

// SessionEventRequest is one interaction applied to a live session.
type SessionEventRequest struct {
	Type    string `json:"type"`
	EntryID string `json:"entry_id,omitempty"`
}

// Validate ensures request correctness.
func (r SessionEventRequest) Validate() error {
	switch session.EventType(r.Type) {
	case session.EventCollapse:
		return nil
	case session.EventToggle, session.EventExpand, session.EventTimerStart, session.EventTimerPause, session.EventTimerReset:
		if strings.TrimSpace(r.EntryID) == "" {
			return errors.New("entry_id is required")
		}
		return nil
	default:
		return errors.New("unknown event type")
	}
}

func (h *Handler) sessionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/public/sessions/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing session id")
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		runner, ok := h.sessions.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: runner.View()})
	case sub == "" && r.Method == http.MethodDelete:
		h.sessions.Delete(id)
		w.WriteHeader(http.StatusNoContent)
	case sub == "events" && r.Method == http.MethodPost:
		h.applySessionEvent(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) applySessionEvent(w http.ResponseWriter, r *http.Request, id string) {
	var req SessionEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	runner, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return
	}

	view, err := runner.Apply(session.Event{Type: session.EventType(req.Type), EntryID: req.EntryID})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownEntry), errors.Is(err, session.ErrNoRestSpec):
			writeError(w, http.StatusUnprocessableEntity, "invalid_entry", err.Error())
		case errors.Is(err, session.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "invalid_transition", err.Error())
		default:
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: view})
}

// ChatRequest is the payload for POST /v1/public/chat.
type ChatRequest struct {
	Question   string `json:"question"`
	Type       string `json:"type"`
	WorkoutID  string `json:"workout_id,omitempty"`
	ExerciseID string `json:"exercise_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// Validate ensures request correctness.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("question is required")
	}
	switch chat.Kind(r.Type) {
	case chat.KindWorkout:
		if r.WorkoutID == "" {
			return errors.New("workout_id is required")
		}
	case chat.KindExercise:
		if r.ExerciseID == "" {
			return errors.New("exercise_id is required")
		}
	default:
		return errors.New("type must be treino or exercicio")
	}
	return nil
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if h.relay == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "chat relay not configured")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	contextText, err := h.chatContext(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) || errors.Is(err, domain.ErrExerciseNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	answer, err := h.relay.Ask(r.Context(), req.Question, contextText, chat.Kind(req.Type))
	if err != nil {
		// The conversation keeps going with a canned apology.
		h.logger.Printf("chat relay: %v", err)
		observability.RecordChatRelayFailure()
		answer = chat.FallbackAnswer
	}

	writeJSON(w, http.StatusOK, ChatResponse{Answer: answer})
}

func (h *Handler) chatContext(ctx context.Context, req ChatRequest) (string, error) {
	if chat.Kind(req.Type) == chat.KindExercise {
		exercise, err := h.service.GetExercise(ctx, req.ExerciseID)
		if err != nil {
			return "", err
		}
		return chat.FormatExerciseContext(exercise), nil
	}

	workout, err := h.service.GetWorkout(ctx, req.WorkoutID)
	if err != nil {
		return "", err
	}

	var completed func(entryID string) bool
	if req.SessionID != "" {
		if runner, ok := h.sessions.Get(req.SessionID); ok {
			done := make(map[string]struct{})
			for _, entryID := range runner.View().CompletedEntryIDs {
				done[entryID] = struct{}{}
			}
			completed = func(entryID string) bool {
				_, ok := done[entryID]
				return ok
			}
		}
	}
	return chat.FormatWorkoutContext(workout, completed), nil
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
