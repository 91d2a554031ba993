package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/logger"
)

type refreshRequest struct {
	ProductID string `json:"product_id"`
}

type refreshResponse struct {
	Message string   `json:"message"`
	Updated int      `json:"updated"`
	Total   int      `json:"total,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Refresh re-checks tracked products on demand. With a product_id in the
// body only that product is re-checked, ignoring staleness; with an empty
// body the whole stale batch runs synchronously so the response can carry
// the counts.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "body must be empty or JSON")
			return
		}

		if req.ProductID != "" {
			if _, err := d.Tracker.Refresh(r.Context(), req.ProductID); err != nil {
				status := statusFor(err)
				if status == http.StatusInternalServerError {
					d.Logger.Error("refresh failed",
						logger.String("product_id", req.ProductID),
						logger.Error(err))
					writeError(w, http.StatusBadGateway, "failed to re-check product")
					return
				}
				writeError(w, status, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, refreshResponse{Message: "product refreshed", Updated: 1})
			return
		}

		report, err := d.Tracker.RefreshAll(r.Context())
		if err != nil {
			d.Logger.Error("batch refresh failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "batch refresh failed")
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{
			Message: "refresh complete",
			Updated: report.Updated,
			Total:   report.Total,
			Errors:  report.Errors,
		})
	}
}
