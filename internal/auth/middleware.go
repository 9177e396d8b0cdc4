package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
)

type ownerKey struct{}

// Middleware resolves the bearer token to an owner id and aborts the
// request with 401 before any handler or store access when there is
// no usable session.
func Middleware(sessions store.SessionStore, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				respondUnauthorized(w, "Authentication required")
				return
			}

			session, err := sessions.GetSession(r.Context(), token)
			if errors.Is(err, store.ErrNotFound) {
				respondUnauthorized(w, "Session expired or revoked")
				return
			}
			if err != nil {
				logger.WithError(err).Error("Failed to resolve session")
				respondUnauthorized(w, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey{}, session.OwnerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header, or ""
// when there is none.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// MustOwnerID returns the owner id placed in the context by
// Middleware. Handlers are only ever mounted behind it.
func MustOwnerID(ctx context.Context) string {
	ownerID, _ := ctx.Value(ownerKey{}).(string)
	return ownerID
}

// WithOwnerID is used by tests to stand in for Middleware.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	response, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"message": message,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write(response)
}
