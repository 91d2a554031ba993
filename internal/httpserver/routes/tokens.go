package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/httpserver/handlers"
)

func init() { Register(registerTokens) }

func registerTokens(r chi.Router, d deps.Deps) {
	// Dev convenience only, never exposed in production.
	if !d.DevTokens {
		return
	}
	r.Post("/api/tokens", handlers.Tokens(d))
}
