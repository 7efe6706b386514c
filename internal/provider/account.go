package provider

import (
	"context"
	"fmt"
)

// SignInAccount is a third-party identity that signed in through a provider
// but has no local account yet. It is kept in the visitor session until a
// signup consumes it.
type SignInAccount struct {
	ProviderID     string `json:"provider_id"`
	ProviderUserID string `json:"provider_user_id"`
	DisplayName    string `json:"display_name,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	AccessToken    string `json:"access_token"`
	Secret         string `json:"secret,omitempty"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	ExpireTime     int64  `json:"expire_time,omitempty"`
}

// Connect links the identity to the local account accountID through the
// provider registered for a.ProviderID.
func (a *SignInAccount) Connect(ctx context.Context, locator *Locator, accountID string) error {
	p, err := locator.Lookup(a.ProviderID)
	if err != nil {
		return err
	}
	if err := p.Connect(ctx, accountID, *a); err != nil {
		return fmt.Errorf("connect %s account: %w", a.ProviderID, err)
	}
	return nil
}
