package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/cricketreg/internal/api/apierr"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	accessContextKey  contextKey = "access"
)

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks the authenticated session against the admin gate
// Must be applied after Auth
func RequireAdmin(gate *admingate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, err := gate.Check(r.Context(), GetSession(r.Context()))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), accessContextKey, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetAccess returns the admin access or panics
func MustGetAccess(ctx context.Context) admingate.Access {
	access, ok := ctx.Value(accessContextKey).(admingate.Access)
	if !ok {
		panic("no admin access in context - admin middleware not applied?")
	}
	return access
}
