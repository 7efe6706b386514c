package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/showcase/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// showcase site.
//
// Routes:
//
//	GET  /        → homeHandler.Home
//	GET  /signup  → signupHandler.Show
//	POST /signup  → signupHandler.Submit (form-encoded bodies only)
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. WithRequestLogging(logger)
//  3. Recoverer
//  4. SameOrigin(logger), which rejects cross-site form posts
//  5. Sessions(sessions, logger), which attaches the visitor session
func NewRouter(
	signupHandler *SignupHandler,
	homeHandler *HomeHandler,
	sessions middleware.SessionStore,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.SameOrigin(logger))
	r.Use(middleware.Sessions(sessions, logger))

	r.Get("/", homeHandler.Home)
	r.Get("/signup", signupHandler.Show)
	r.With(chiMiddleware.AllowContentType("application/x-www-form-urlencoded")).
		Post("/signup", signupHandler.Submit)

	return r
}
