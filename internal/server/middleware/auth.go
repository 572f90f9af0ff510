// Package middleware provides HTTP middleware for authenticating
// service callers.
package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// clientIDKey is the context key for the authenticated client ID.
const clientIDKey ContextKey = "clientID"

// sharedSecretClient marks requests authenticated with the static
// service secret rather than a per-client token.
var sharedSecretClient = uuid.Nil

// TokenValidator validates a JWT service token. The middleware accepts
// any JWT service implementation through it.
type TokenValidator interface {
	ValidateToken(tokenString string) (ClientIDGetter, error)
}

// ClientIDGetter extracts the client ID from token claims.
type ClientIDGetter interface {
	GetClientID() uuid.UUID
}

// AuthMiddleware builds middleware that accepts either the shared
// service secret or a valid JWT as a Bearer credential. With an empty
// secret and a nil validator, authentication is disabled and requests
// pass through.
func AuthMiddleware(secret string, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" && validator == nil {
				next.ServeHTTP(w, r)
				return
			}

			credential, ok := bearerCredential(r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if secret != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(secret)) == 1 {
				ctx := context.WithValue(r.Context(), clientIDKey, sharedSecretClient)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if validator != nil {
				if claims, err := validator.ValidateToken(credential); err == nil {
					ctx := context.WithValue(r.Context(), clientIDKey, claims.GetClientID())
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}

// bearerCredential extracts the Bearer credential from the
// Authorization header. The scheme match is case-insensitive.
func bearerCredential(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	credential := strings.TrimSpace(parts[1])
	return credential, credential != ""
}

// GetClientID extracts the authenticated client ID from the request
// context. uuid.Nil means shared-secret authentication.
func GetClientID(r *http.Request) (uuid.UUID, error) {
	clientID, ok := r.Context().Value(clientIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("client ID not found in request context")
	}
	return clientID, nil
}
