// Package http provides the HTTP handlers and routing for the showcase
// site: the signup form and the home page.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/showcase/internal/middleware"
	"github.com/atinyakov/showcase/internal/models"
	"github.com/atinyakov/showcase/internal/provider"
)

// UserService creates local accounts.
type UserService interface {
	// CreateUser stores u with the given password. It returns
	// models.ErrUsernameAlreadyInUse when the username is taken.
	CreateUser(ctx context.Context, u models.User, password string) error
}

// SignInService establishes authenticated sessions.
type SignInService interface {
	// SignIn marks username as signed into the session.
	SignIn(ctx context.Context, sessionID, username string) error
}

// PendingSignInStore gives access to the provider sign-in waiting in a session.
type PendingSignInStore interface {
	// TakePendingSignIn removes the pending sign-in from the session and
	// returns it, or nil when there is none.
	TakePendingSignIn(ctx context.Context, sessionID string) (*provider.SignInAccount, error)
}

// SignupHandler serves the signup form.
type SignupHandler struct {
	users     UserService
	signIn    SignInService
	pending   PendingSignInStore
	providers *provider.Locator
	logger    *zap.Logger
}

// NewSignupHandler returns a SignupHandler wired to its collaborators.
func NewSignupHandler(
	users UserService,
	signIn SignInService,
	pending PendingSignInStore,
	providers *provider.Locator,
	logger *zap.Logger,
) *SignupHandler {
	return &SignupHandler{
		users:     users,
		signIn:    signIn,
		pending:   pending,
		providers: providers,
		logger:    logger,
	}
}

type signupPage struct {
	Form   models.SignupForm
	Errors FieldErrors
}

// Show handles GET /signup and renders an empty form.
func (h *SignupHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, signupPage{})
}

// Submit handles POST /signup.
//
// Invalid input and taken usernames re-render the form with field errors.
// Otherwise the account is created, signed in, linked to any provider
// sign-in pending in the session, and the visitor is redirected to /.
func (h *SignupHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)
	if sess == nil {
		h.fail(w, "signup without session", errors.New("no session in request context"))
		return
	}

	form, errs, err := bindSignupForm(r)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if errs.HasErrors() {
		h.redisplay(w, form, errs)
		return
	}

	created, err := h.createUser(ctx, sess.ID, form, errs)
	if err != nil {
		h.fail(w, "failed to create user", err)
		return
	}
	if !created {
		h.redisplay(w, form, errs)
		return
	}

	connected, err := h.createConnection(ctx, sess.ID, form.Username)
	if err != nil {
		h.fail(w, "failed to connect provider account", err)
		return
	}

	h.logger.Info("user signed up",
		zap.String("username", form.Username),
		zap.String("provider", connected),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// createUser stores the account and signs it in. A taken username is
// reported through errs and yields false with a nil error.
func (h *SignupHandler) createUser(ctx context.Context, sessionID string, form models.SignupForm, errs FieldErrors) (bool, error) {
	user := models.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	err := h.users.CreateUser(ctx, user, form.Password)
	if errors.Is(err, models.ErrUsernameAlreadyInUse) {
		errs.Reject("username", "user.duplicateUsername", "already in use")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := h.signIn.SignIn(ctx, sessionID, user.Username); err != nil {
		return false, fmt.Errorf("sign in: %w", err)
	}
	return true, nil
}

// createConnection links accountID to the provider sign-in pending in the
// session, if any, and returns the provider id it connected to.
func (h *SignupHandler) createConnection(ctx context.Context, sessionID, accountID string) (string, error) {
	account, err := h.pending.TakePendingSignIn(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", nil
	}
	if err := account.Connect(ctx, h.providers, accountID); err != nil {
		return "", err
	}
	return account.ProviderID, nil
}

func (h *SignupHandler) redisplay(w http.ResponseWriter, form models.SignupForm, errs FieldErrors) {
	form.Password = ""
	h.render(w, signupPage{Form: form, Errors: errs})
}

func (h *SignupHandler) render(w http.ResponseWriter, page signupPage) {
	if err := renderPage(w, "signup.html", http.StatusOK, page); err != nil {
		h.fail(w, "failed to render signup form", err)
	}
}

func (h *SignupHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
