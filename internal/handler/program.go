package handler

import (
	"net/http"

	"github.com/sakif/ringlog/internal/program"
)

// HandleProgram returns the static catalog. No session is required.
//
// HTTP: GET /api/program
func HandleProgram(w http.ResponseWriter, _ *http.Request) {
	writeData(w, program.Full())
}
