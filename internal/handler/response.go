package handler

// RESPONSE ENVELOPE:
// Every API response has the same shape so the client can branch on one
// field:
//
//	{"success": true,  "data": {...}}
//	{"success": false, "error": "Workout not found"}
//
// writeError is the only place where domain errors become status codes.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/auth"
)

const (
	msgInternal     = "Internal server error"
	msgInvalidBody  = "Invalid request body"
	msgUnauthorized = "Unauthorized"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before WriteHeader; anything set afterwards is ignored.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, Envelope{Success: true})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg})
}

// writeError maps a domain error to its status code. AppError messages are
// safe for clients; anything else is logged and answered with a generic 500
// so driver errors never leak.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}
		if status != http.StatusInternalServerError {
			writeFailure(w, status, appErr.Message)
			return
		}
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeFailure(w, http.StatusInternalServerError, msgInternal)
}

// decodeJSON reads the request body into dst. A malformed body is a 400
// with a fixed message; the decoder's own text is not echoed back.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// userID returns the authenticated user's id. Routes behind RequireAuth
// always have one; the 401 branch covers handlers mounted without it.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, msgUnauthorized)
	}
	return id, ok
}
