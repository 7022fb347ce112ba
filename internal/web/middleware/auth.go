package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	accessContextKey  contextKey = "access"
)

// SessionCookieName is the cookie holding the session token
const SessionCookieName = "session"

// NotAdminMessage is flashed when a signed-in user is not on the allow-list
const NotAdminMessage = "You are not an authorized admin."

// GetSession retrieves the session from the request context
// Returns nil if the request is not signed in
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetAccess retrieves the admin access from the request context
// Only set on routes behind RequireAdmin
func GetAccess(ctx context.Context) (admingate.Access, bool) {
	access, ok := ctx.Value(accessContextKey).(admingate.Access)
	return access, ok
}

// Session returns middleware that resolves the session cookie if present
func Session(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, err := authService.ValidateSession(cookie.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
				} else {
					ClearSessionCookie(w)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that lets only allow-listed sessions through
// Requires Session to be applied first
func RequireAdmin(gate *admingate.Gate, authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			access, err := gate.Check(r.Context(), session)
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), accessContextKey, access)
				next.ServeHTTP(w, r.WithContext(ctx))
			case errors.Is(err, admingate.ErrUnauthenticated):
				// Store original URL to redirect back after sign in
				http.Redirect(w, r, "/admin?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			case errors.Is(err, admingate.ErrNotAdmin):
				authService.SignOut(session.Token)
				ClearSessionCookie(w)
				SetFlash(w, layout.FlashError, NotAdminMessage)
				http.Redirect(w, r, "/", http.StatusSeeOther)
			default:
				SetFlash(w, layout.FlashError, GenericErrorMessage)
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
			}
		})
	}
}

// SetSessionCookie stores the session token for the browser
func SetSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
