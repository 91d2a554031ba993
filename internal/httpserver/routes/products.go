package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/httpserver/handlers"
	"github.com/dropalert/dropalert/internal/httpserver/mw"
)

func init() { Register(registerProducts) }

func registerProducts(r chi.Router, d deps.Deps) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(mw.Auth(d.Auth, d.Logger))
		r.Post("/", handlers.CreateProduct(d))
		r.Get("/", handlers.ListProducts(d))
		r.Get("/{id}", handlers.GetProduct(d))
		r.Delete("/{id}", handlers.DeleteProduct(d))
		r.Post("/{id}/alerts", handlers.CreateAlert(d))
	})
}
