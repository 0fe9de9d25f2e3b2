package handlers

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const usernameKey contextKey = "username"

// requireAuth verifies the bearer token and puts the username on the request
// context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.respondJSON(w, http.StatusUnauthorized, errorResponse{
				Error: errorBody{Code: "unauthorized", Message: "missing bearer token"},
			})
			return
		}

		username, err := h.auth.VerifyToken(token)
		if err != nil {
			h.respondJSON(w, http.StatusUnauthorized, errorResponse{
				Error: errorBody{Code: "unauthorized", Message: "invalid or expired token"},
			})
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func usernameFrom(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}
