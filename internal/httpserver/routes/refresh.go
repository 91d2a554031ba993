package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/httpserver/handlers"
	"github.com/dropalert/dropalert/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(mw.Auth(d.Auth, d.Logger)).Post("/api/refresh", handlers.Refresh(d))
}
