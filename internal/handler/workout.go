package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
	"github.com/sakif/ringlog/internal/service"
)

// WorkoutHandler manages logged workouts.
type WorkoutHandler struct {
	svc    *service.WorkoutService
	logger *slog.Logger
}

func NewWorkoutHandler(svc *service.WorkoutService, logger *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{svc: svc, logger: logger}
}

type workoutList struct {
	Workouts []model.Workout `json:"workouts"`
	Count    int             `json:"count"`
}

// HandleList returns the user's workouts, newest first.
//
// HTTP: GET /api/workouts?limit=10&thisWeek=true&phase=1&week=2&session=Push+1
func (h *WorkoutHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	ws, err := h.svc.List(r.Context(), uid, service.ListParams{
		Limit:    queryInt(r, "limit"),
		ThisWeek: queryBool(r, "thisWeek"),
		Phase:    queryInt(r, "phase"),
		Week:     queryInt(r, "week"),
		Session:  program.SessionType(r.URL.Query().Get("session")),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, workoutList{Workouts: ws, Count: len(ws)})
}

type createWorkoutRequest struct {
	Date      string              `json:"date"`
	Phase     int                 `json:"phase"`
	Week      int                 `json:"week"`
	Session   program.SessionType `json:"session"`
	IsDeload  bool                `json:"isDeload"`
	Exercises []model.ExerciseLog `json:"exercises"`
	Notes     string              `json:"notes"`
	Duration  *int                `json:"duration"`
}

// HandleCreate saves a new workout.
//
// HTTP: POST /api/workouts
func (h *WorkoutHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req createWorkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Date) == "" || req.Phase == 0 || req.Week == 0 || req.Session == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid date")
		return
	}

	workout, err := h.svc.Create(r.Context(), uid, service.CreateInput{
		Date:      date,
		Phase:     req.Phase,
		Week:      req.Week,
		Session:   req.Session,
		IsDeload:  req.IsDeload,
		Exercises: req.Exercises,
		Notes:     req.Notes,
		Duration:  req.Duration,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, workout)
}

// workoutID validates the {id} path parameter before any lookup.
func (h *WorkoutHandler) workoutID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !model.IsValidID(id) {
		writeError(w, h.logger, apperror.InvalidID("workout"))
		return "", false
	}
	return id, true
}

// HandleGet returns one workout.
//
// HTTP: GET /api/workouts/{id}
func (h *WorkoutHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	workout, err := h.svc.Get(r.Context(), uid, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, workout)
}

// HandleUpdate changes exercises, notes or duration.
//
// HTTP: PUT /api/workouts/{id}
func (h *WorkoutHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	var patch model.WorkoutPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	workout, err := h.svc.Update(r.Context(), uid, id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, workout)
}

// HandleDelete removes one workout. Someone else's workout is reported as
// not found and left alone.
//
// HTTP: DELETE /api/workouts/{id}
func (h *WorkoutHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

// HandleDraft prefills a workout for the session slug at the user's
// current phase and week.
//
// HTTP: GET /api/workouts/draft/{slug}?copyPrevious=true
func (h *WorkoutHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	draft, err := h.svc.Draft(r.Context(), uid, chi.URLParam(r, "slug"), queryBool(r, "copyPrevious"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, draft)
}
