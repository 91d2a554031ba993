package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropalert/dropalert/internal/auth"
	"github.com/dropalert/dropalert/internal/logger"
)

// Verifier validates a bearer token and returns the caller's identity.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom returns the authenticated identity stored by the Auth
// middleware, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// Auth returns a middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header and stashes the verified identity
// in the request context.
func Auth(verifier Verifier, loggerClient logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				loggerClient.Debug("token rejected",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
