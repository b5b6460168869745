package middleware

import (
	"context"
	"net/http"

	"adjectivemagic/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "am_session"

type sessionContextKey struct{}

// SessionLookup finds a live session by id.
type SessionLookup interface {
	Get(id string) (*session.Session, bool)
}

// Session attaches the caller's live session, if any, to the request
// context. Requests without one pass through untouched.
func Session(store SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err == nil && c.Value != "" {
				if s, ok := store.Get(c.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie points the browser at s.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, s *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func SessionFromContext(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionContextKey{}).(*session.Session); ok {
		return s
	}
	return nil
}
