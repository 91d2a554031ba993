package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropalert/dropalert/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes. Anything unrecognized
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrUnsupportedSite):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateURL):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoPrice):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
