package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hisab-io/hisab/internal/apperr"
)

// statusResponse is the envelope for mutations without a payload and for
// all error responses.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error's kind to an HTTP status. Internal causes are
// logged server-side; the client only ever sees the safe message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPermission:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		slog.Error("Internal error", "error", err)
		message = "an unexpected error occurred"
	}
	writeJSON(w, status, statusResponse{Success: false, Message: message})
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
