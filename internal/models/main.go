// Package models defines the core data structures for users, sessions,
// provider connections, and the signup form.
package models

import (
	"errors"
	"time"
)

var (
	// ErrUsernameAlreadyInUse is returned when an account with the requested
	// username already exists.
	ErrUsernameAlreadyInUse = errors.New("username already in use")
	// ErrSessionNotFound is returned when a session does not exist or has expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateConnection is returned when the provider identity is
	// already linked to the account.
	ErrDuplicateConnection = errors.New("connection already exists")
	// ErrUserNotFound is returned when no account matches the username.
	ErrUserNotFound = errors.New("user not found")
)

// User represents a local showcase account.
type User struct {
	// Username is the login name chosen by the user. It also serves as the
	// account identifier.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// FirstName is the user's given name.
	FirstName string
	// LastName is the user's family name.
	LastName string
}

// SignupForm is the user-submitted signup request.
type SignupForm struct {
	Username  string `schema:"username" validate:"required,max=50,username"`
	Password  string `schema:"password" validate:"required,bcryptlen"`
	FirstName string `schema:"firstName" validate:"required,max=100,text"`
	LastName  string `schema:"lastName" validate:"required,max=100,text"`
}

// Session is a visitor session tracked by cookie.
type Session struct {
	// ID is the random session identifier stored in the cookie.
	ID string
	// Username is the signed-in user, empty for anonymous sessions.
	Username string
	// ExpiresAt is the moment after which the session is no longer valid.
	ExpiresAt time.Time
}

// SignedIn reports whether a user is signed into the session.
func (s *Session) SignedIn() bool {
	return s != nil && s.Username != ""
}

// Connection links a local account to an identity at an external provider.
type Connection struct {
	UserID         string
	ProviderID     string
	ProviderUserID string
	// Rank orders multiple connections of one user to the same provider.
	Rank         int
	DisplayName  string
	ProfileURL   string
	ImageURL     string
	AccessToken  string
	Secret       string
	RefreshToken string
	// ExpireTime is the access token expiry as Unix seconds, 0 when unknown.
	ExpireTime int64
}
