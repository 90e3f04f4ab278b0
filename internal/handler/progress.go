package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/ringlog/internal/service"
)

// ProgressHandler serves the read-only progress views.
type ProgressHandler struct {
	svc    *service.ProgressService
	logger *slog.Logger
}

func NewProgressHandler(svc *service.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, logger: logger}
}

// HTTP: GET /api/progress?limit=50
func (h *ProgressHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	sum, err := h.svc.Summary(r.Context(), uid, queryInt(r, "limit"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, sum)
}

// HTTP: GET /api/progress/week
func (h *ProgressHandler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	st, err := h.svc.WeekStatus(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, st)
}

// HTTP: GET /api/progress/exercises/{slug}
func (h *ProgressHandler) HandleExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.ExerciseDetail(r.Context(), uid, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, view)
}

// HTTP: GET /api/exercises/{slug}/variants
func (h *ProgressHandler) HandleVariants(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	vs, err := h.svc.Variants(r.Context(), uid, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, vs)
}
