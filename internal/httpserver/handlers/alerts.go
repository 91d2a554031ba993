package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropalert/dropalert/internal/domain"
	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/httpserver/mw"
	"github.com/dropalert/dropalert/internal/logger"
)

type createAlertRequest struct {
	TargetPrice int `json:"target_price"`
}

// CreateAlert registers a price alert on one of the caller's products. The
// alert fires once, the first time the sale price drops to the target or
// below, and is deactivated after firing.
func CreateAlert(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var req createAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetPrice <= 0 {
			writeError(w, http.StatusBadRequest, "body must be JSON with a positive target_price")
			return
		}

		// Ownership check doubles as an existence check.
		productID := chi.URLParam(r, "id")
		if _, err := d.Products.GetOwnedProduct(r.Context(), identity.UserID, productID); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		alert := &domain.PriceAlert{
			ID:          uuid.NewString(),
			UserID:      identity.UserID,
			ProductID:   productID,
			TargetPrice: req.TargetPrice,
			Active:      true,
			CreatedAt:   d.TimeNow(),
		}
		if err := d.Products.CreateAlert(r.Context(), alert); err != nil {
			d.Logger.Error("failed to create alert",
				logger.String("product_id", productID),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create alert")
			return
		}

		writeJSON(w, http.StatusCreated, alert)
	}
}
