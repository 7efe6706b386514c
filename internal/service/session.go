package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/showcase/internal/models"
	"github.com/atinyakov/showcase/internal/provider"
)

// SessionRepository defines the persistence operations needed by the SessionService.
type SessionRepository interface {
	// CreateSession stores a new anonymous session.
	CreateSession(ctx context.Context, s models.Session) error
	// GetSession returns an unexpired session or models.ErrSessionNotFound.
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// SetUsername marks username as signed into the session.
	SetUsername(ctx context.Context, id, username string) error
	// TakePendingSignIn atomically reads and clears the pending provider
	// sign-in, returning nil when there is none.
	TakePendingSignIn(ctx context.Context, id string) (*provider.SignInAccount, error)
}

// SessionService manages visitor sessions and signs users into them.
type SessionService struct {
	repo  SessionRepository
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

// NewSessionService constructs a SessionService whose sessions live for ttl.
func NewSessionService(repo SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{
		repo:  repo,
		ttl:   ttl,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Start creates a new anonymous session.
func (s *SessionService) Start(ctx context.Context) (*models.Session, error) {
	sess := models.Session{
		ID:        s.newID(),
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get returns the live session with the given id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	return s.repo.GetSession(ctx, id)
}

// SignIn establishes username as the authenticated user of the session.
func (s *SessionService) SignIn(ctx context.Context, sessionID, username string) error {
	return s.repo.SetUsername(ctx, sessionID, username)
}

// TakePendingSignIn removes the pending provider sign-in from the session
// and returns it. A nil account means none was pending.
func (s *SessionService) TakePendingSignIn(ctx context.Context, sessionID string) (*provider.SignInAccount, error) {
	return s.repo.TakePendingSignIn(ctx, sessionID)
}
