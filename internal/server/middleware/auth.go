// Package middleware provides HTTP middleware for bearer token authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const clientKey ContextKey = "client"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (ClientGetter, error)
}

// ClientGetter exposes the client a token was issued to.
type ClientGetter interface {
	ClientName() string
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's client name in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), clientKey, claims.ClientName())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken parses "Bearer <token>", accepting any case for the scheme.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="intake"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// Client returns the authenticated client name, or "" when auth is disabled.
func Client(r *http.Request) string {
	name, _ := r.Context().Value(clientKey).(string)
	return name
}
