package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropalert/dropalert/internal/domain"
	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/httpserver/mw"
	"github.com/dropalert/dropalert/internal/logger"
)

type createProductRequest struct {
	URL string `json:"url"`
}

type productListResponse struct {
	Products []*domain.TrackedProduct `json:"products"`
}

// CreateProduct starts tracking a product URL for the caller. The page is
// scraped synchronously so the response carries the initial snapshot.
func CreateProduct(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var req createProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty url field")
			return
		}

		p, err := d.Tracker.Track(r.Context(), identity.UserID, identity.Email, req.URL)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("failed to start tracking",
					logger.String("url", req.URL),
					logger.Error(err))
				writeError(w, http.StatusBadGateway, "failed to fetch product page")
				return
			}
			writeError(w, status, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, p)
	}
}

// ListProducts returns every product the caller tracks.
func ListProducts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		products, err := d.Products.ListProducts(r.Context(), identity.UserID)
		if err != nil {
			d.Logger.Error("failed to list products", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
		if products == nil {
			products = []*domain.TrackedProduct{}
		}

		writeJSON(w, http.StatusOK, productListResponse{Products: products})
	}
}

// GetProduct returns one of the caller's products with its full price history.
func GetProduct(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		p, err := d.Products.GetOwnedProduct(r.Context(), identity.UserID, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

// DeleteProduct stops tracking one of the caller's products.
func DeleteProduct(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		if err := d.Products.DeleteProduct(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
