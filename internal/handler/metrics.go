package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/service"
)

// MetricsHandler manages body-weight and measurement entries.
type MetricsHandler struct {
	svc    *service.BodyMetricsService
	logger *slog.Logger
}

func NewMetricsHandler(svc *service.BodyMetricsService, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{svc: svc, logger: logger}
}

// HTTP: GET /api/metrics
func (h *MetricsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	ms, err := h.svc.List(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, ms)
}

type createMetricsRequest struct {
	Date         string              `json:"date"`
	Weight       *float64            `json:"weight"`
	Measurements *model.Measurements `json:"measurements"`
	Notes        string              `json:"notes"`
}

// HTTP: POST /api/metrics
func (h *MetricsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req createMetricsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.MetricsInput{Weight: req.Weight, Measurements: req.Measurements, Notes: req.Notes}
	if req.Date != "" {
		date, ok := parseDate(req.Date)
		if !ok {
			writeFailure(w, http.StatusBadRequest, "Invalid date")
			return
		}
		in.Date = &date
	}

	m, err := h.svc.Create(r.Context(), uid, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, m)
}

// HTTP: DELETE /api/metrics/{id}
func (h *MetricsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !model.IsValidID(id) {
		writeError(w, h.logger, apperror.InvalidID(""))
		return
	}
	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}
