// Package service provides the account and session business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/showcase/internal/models"
)

// UserRepository defines the persistence operations
// required by the user service.
type UserRepository interface {
	// CreateUser stores a new account. It returns
	// models.ErrUsernameAlreadyInUse when the username is taken.
	CreateUser(ctx context.Context, u models.User) error
	// GetUser returns the account with the given username.
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// ConnectionLister lists the provider connections of an account.
type ConnectionLister interface {
	ConnectionsForUser(ctx context.Context, userID string) ([]models.Connection, error)
}

// UserService creates and reads showcase accounts.
type UserService struct {
	repo        UserRepository
	connections ConnectionLister
	hashCost    int
}

// NewUserService constructs a UserService using the provided repositories.
func NewUserService(repo UserRepository, connections ConnectionLister) *UserService {
	return &UserService{repo: repo, connections: connections, hashCost: bcrypt.DefaultCost}
}

// CreateUser hashes password into u and stores the account.
// models.ErrUsernameAlreadyInUse is returned unwrapped.
func (s *UserService) CreateUser(ctx context.Context, u models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.repo.CreateUser(ctx, u)
}

// GetUser returns the account with the given username.
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetUser(ctx, username)
}

// Connections returns the provider connections of the account.
func (s *UserService) Connections(ctx context.Context, username string) ([]models.Connection, error) {
	return s.connections.ConnectionsForUser(ctx, username)
}
