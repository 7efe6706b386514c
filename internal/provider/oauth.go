package provider

import (
	"context"

	"github.com/atinyakov/showcase/internal/models"
)

// ConnectionRepository persists provider connections.
type ConnectionRepository interface {
	// AddConnection stores c. It returns models.ErrDuplicateConnection when
	// the identity is already linked to the user.
	AddConnection(ctx context.Context, c models.Connection) error
}

// OAuthProvider is a provider whose sign-ins carry OAuth credentials. It
// stores the credentials as a connection of the local account.
type OAuthProvider struct {
	id          string
	connections ConnectionRepository
}

// NewOAuthProvider returns a provider registered under id that records
// connections in repo.
func NewOAuthProvider(id string, repo ConnectionRepository) *OAuthProvider {
	return &OAuthProvider{id: id, connections: repo}
}

// ID returns the provider id.
func (p *OAuthProvider) ID() string { return p.id }

// Connect stores account as a connection of accountID.
func (p *OAuthProvider) Connect(ctx context.Context, accountID string, account SignInAccount) error {
	return p.connections.AddConnection(ctx, models.Connection{
		UserID:         accountID,
		ProviderID:     p.id,
		ProviderUserID: account.ProviderUserID,
		DisplayName:    account.DisplayName,
		ProfileURL:     account.ProfileURL,
		ImageURL:       account.ImageURL,
		AccessToken:    account.AccessToken,
		Secret:         account.Secret,
		RefreshToken:   account.RefreshToken,
		ExpireTime:     account.ExpireTime,
	})
}
