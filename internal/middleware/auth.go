package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const usernameKey contextKey = "username"

// SessionChecker reports whether the dashboard holds a live backend session.
// Satisfied by *auth.Session; narrow interface for testability.
type SessionChecker interface {
	IsAuthenticated() bool
	Username() string
}

// RequireSession rejects requests with 401 while no unexpired backend
// credential is held, and stores the signed-in username in the context.
func RequireSession(session SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsAuthenticated() {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, session.Username())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the username stored by RequireSession.
func UsernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
