package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"autolanka/internal/apperrors"
)

type contextKey string

const userIDKey contextKey = "userID"

// Middleware rejects requests without a valid Bearer token and stores the
// authenticated user id in the request context.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(w, "No token provided")
				return
			}
			userID, err := tokens.UserID(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized replies in the same JSON shape the handlers use.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	ae := apperrors.Unauthorized(msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.StatusCode())
	json.NewEncoder(w).Encode(map[string]string{"message": ae.Message})
}

// UserIDFromContext returns the user id stored by Middleware.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
