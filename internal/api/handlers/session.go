package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName is the durable session affinity cookie
const SessionCookieName = "watchtally_session"

const sessionCookieMaxAge = 60 * 60 * 24 * 7 // ~7 days

// resolveSessionID returns the session ID for a request: the explicit
// session_id query parameter when present, else the session cookie.
// hadCookie reports whether the client already presented a cookie.
func resolveSessionID(r *http.Request) (sessionID string, hadCookie bool) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		sessionID = cookie.Value
		hadCookie = true
	}
	if explicit := r.URL.Query().Get("session_id"); explicit != "" {
		sessionID = explicit
	}
	return sessionID, hadCookie
}

// newSessionID generates an opaque session key
func newSessionID() string {
	return uuid.NewString()
}

// setSessionCookie sets the session cookie. Only called when the client did
// not already present one.
func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
