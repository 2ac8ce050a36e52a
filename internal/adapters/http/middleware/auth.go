package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "storyboard_session"

// Session is the authenticated flag carried between requests. It is the only
// cross-request state in the system: a signed cookie holding the editor's
// username and issue time, nothing server-side to revoke beyond the cookie.
type Session struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// SessionCodec signs and verifies the session cookie.
// The signing key is derived from the configured session secret, so cookies
// stay valid across restarts as long as the secret is stable.
type SessionCodec struct {
	sc     *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
}

// NewSessionCodec creates a codec keyed by secret. maxAge bounds both the
// cookie lifetime and the signed value's validity.
// PRE: secret is non-empty, maxAge > 0
// POST: returns a codec whose cookies expire after maxAge
func NewSessionCodec(secret string, maxAge time.Duration, secure bool) *SessionCodec {
	hashKey := sha256.Sum256([]byte(secret))
	sc := securecookie.New(hashKey[:], nil)
	sc.MaxAge(int(maxAge.Seconds()))
	return &SessionCodec{sc: sc, maxAge: maxAge, secure: secure}
}

// Set writes a signed session cookie for the given username.
// PRE: username is non-empty
// POST: response carries the session cookie
func (c *SessionCodec) Set(w http.ResponseWriter, username string) error {
	session := Session{Username: username, IssuedAt: time.Now()}
	encoded, err := c.sc.Encode(sessionCookieName, session)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
	})
	return nil
}

// Clear destroys the session by expiring the cookie.
// POST: response instructs the browser to drop the session cookie
func (c *SessionCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// decode verifies the cookie value and returns the session.
func (c *SessionCodec) decode(value string) (Session, bool) {
	var session Session
	if err := c.sc.Decode(sessionCookieName, value, &session); err != nil {
		return Session{}, false
	}
	return session, true
}

// Auth returns middleware that extracts the session from the cookie and sets
// it in the request context. It does NOT block unauthenticated requests;
// use RequireAuth for that.
func Auth(codec *SessionCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := codec.decode(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthRequiredCode is the machine-distinguishable marker for 401 responses.
// The editing client keys its session-expiry recovery on this, not on the
// error message text.
const AuthRequiredCode = "AUTH_REQUIRED"

// RequireAuth returns middleware that rejects unauthenticated requests with
// a 401 JSON body carrying AuthRequiredCode.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Authentication required",
				"code":  AuthRequiredCode,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
