package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dropalert/dropalert/internal/httpserver/deps"
)

type tokenRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Tokens mints a bearer token for the given identity. Development only, the
// route is not registered unless dev tokens are enabled; a real deployment
// gets its tokens from the login service.
func Tokens(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Email == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with user_id and email")
			return
		}

		token, err := d.Auth.Issue(req.UserID, req.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
	}
}
