package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/showcase/internal/middleware"
	"github.com/atinyakov/showcase/internal/models"
)

// AccountService reads accounts and their provider connections.
type AccountService interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	Connections(ctx context.Context, username string) ([]models.Connection, error)
}

// HomeHandler serves the site root.
type HomeHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewHomeHandler returns a HomeHandler reading accounts from accounts.
func NewHomeHandler(accounts AccountService, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{accounts: accounts, logger: logger}
}

type homePage struct {
	User        *models.User
	Connections []models.Connection
}

// Home handles GET /. Signed-in visitors see their name and connected
// accounts; anonymous visitors get a link to the signup form.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var page homePage

	if username := middleware.GetUserIDFromContext(ctx); username != "" {
		user, err := h.accounts.GetUser(ctx, username)
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			// The account was removed after sign-in; show the anonymous page.
		case err != nil:
			h.fail(w, "failed to load user", err)
			return
		default:
			conns, err := h.accounts.Connections(ctx, username)
			if err != nil {
				h.fail(w, "failed to load connections", err)
				return
			}
			page = homePage{User: user, Connections: conns}
		}
	}

	if err := renderPage(w, "home.html", http.StatusOK, page); err != nil {
		h.fail(w, "failed to render home page", err)
	}
}

func (h *HomeHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
