package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bloom_server/helpers"
	"bloom_server/models"
	"bloom_server/services"
)

type contextKey string

const userContextKey contextKey = "authUser"

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserLoader fetches the account behind a verified token.
type UserLoader interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// RequireAuth validates the session token (Authorization header or cookie),
// loads the account and stores it in the request context.
func RequireAuth(auth TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}

			userID, err := auth.VerifyToken(token)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if errors.Is(err, services.ErrUserNotFound) {
				helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized: User not found")
				return
			}
			if err != nil {
				// A store outage is not a credentials problem
				helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to load account")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user stored by RequireAuth.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}
