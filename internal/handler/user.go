package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/ringlog/internal/auth"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/service"
)

// UserHandler serves the signed-in user's profile and settings.
type UserHandler struct {
	svc          *service.UserService
	cookieSecure bool
	logger       *slog.Logger
}

func NewUserHandler(svc *service.UserService, cookieSecure bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, cookieSecure: cookieSecure, logger: logger}
}

// HandleGet returns the current user.
//
// HTTP: GET /api/user
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, user)
}

type updateUserRequest struct {
	Settings *model.SettingsPatch `json:"settings"`
}

// HandleUpdate merges the submitted settings over the stored ones. This is
// also how the client advances to the next week or phase.
//
// HTTP: PUT /api/user
// REQUEST BODY: {"settings": {"currentWeek": 3}}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Settings == nil {
		writeFailure(w, http.StatusBadRequest, "Settings required")
		return
	}
	user, err := h.svc.UpdateSettings(r.Context(), uid, *req.Settings)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, user)
}

// HandleDelete removes the account with all of its data and ends the
// session.
//
// HTTP: DELETE /api/user
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), uid); err != nil {
		writeError(w, h.logger, err)
		return
	}
	auth.ClearSessionCookie(w, h.cookieSecure)
	writeOK(w)
}
