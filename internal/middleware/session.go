// Package middleware provides HTTP middlewares for sessions and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/showcase/internal/models"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "showcase_session"

// SessionStore loads and starts visitor sessions.
type SessionStore interface {
	// Get returns the live session with the given id, or
	// models.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Start creates a new anonymous session.
	Start(ctx context.Context) (*models.Session, error)
}

// Sessions is a middleware that attaches the visitor session to the request
// context.
//
// A request whose cookie names a live session continues with that session.
// Any other request gets a freshly started session and a cookie for it.
func Sessions(store SessionStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				sess, err := store.Get(ctx, c.Value)
				switch {
				case err == nil:
					next.ServeHTTP(w, r.WithContext(ContextWithSession(ctx, sess)))
					return
				case !errors.Is(err, models.ErrSessionNotFound):
					logger.Error("failed to load session", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			sess, err := store.Start(ctx)
			if err != nil {
				logger.Error("failed to start session", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(ContextWithSession(ctx, sess)))
		})
	}
}

// ContextWithSession returns a copy of ctx carrying sess.
func ContextWithSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the session attached by Sessions, or nil.
func SessionFromContext(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionKey).(*models.Session)
	return sess
}

// GetUserIDFromContext extracts the signed-in username from the request
// context. Returns an empty string for anonymous or missing sessions.
func GetUserIDFromContext(ctx context.Context) string {
	if sess := SessionFromContext(ctx); sess != nil {
		return sess.Username
	}
	return ""
}
