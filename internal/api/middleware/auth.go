// Package middleware carries the HTTP middleware for the engagement API.
// Authentication here is glue: the auth provider issues the tokens, this
// middleware only verifies them and surfaces the opaque caller identity.
package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Context keys for storing caller identity
type contextKey string

const (
	// UserIDKey holds the verified caller's opaque user ID
	UserIDKey contextKey = "user_id"

	// DisplayNameKey holds the caller's display name claim, when present
	DisplayNameKey contextKey = "display_name"
)

// AuthMiddleware enforces bearer-token authentication for protected routes.
// Tokens are HS256 JWTs from the auth provider; the 'sub' claim is the opaque
// user ID every service operation acts on behalf of.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new auth middleware with the provider's shared secret
func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth ensures the request carries a valid bearer token.
// If not authenticated, returns 401. If authenticated, injects the caller's
// user ID into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, displayName, err := m.verify(r)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or missing bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, DisplayNameKey, displayName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads caller identity if a token is present but doesn't
// require it. Used by endpoints that serve both anonymous and signed-in
// readers.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, displayName, err := m.verify(r)
		if err != nil {
			// Invalid token on an optional route still fails; silently
			// downgrading a bad credential to anonymous hides client bugs
			writeAuthError(w, "Invalid bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, DisplayNameKey, displayName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) verify(r *http.Request) (userID, displayName string, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", fmt.Errorf("missing Authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "", fmt.Errorf("expected Bearer token")
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("token verification failed: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", fmt.Errorf("missing sub claim")
	}

	name, _ := claims["name"].(string)
	return sub, name, nil
}

// GetUserID extracts the verified caller's user ID from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// GetDisplayName extracts the caller's display name claim, if any
func GetDisplayName(r *http.Request) string {
	name, _ := r.Context().Value(DisplayNameKey).(string)
	return name
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
