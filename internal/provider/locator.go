// Package provider links local accounts to identities at third-party
// providers. A Locator is built once at startup from the configured
// providers and handed to the code that completes a pending sign-in.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProvider is returned when no provider is registered under an id.
var ErrUnknownProvider = errors.New("unknown provider")

// ServiceProvider records the link between a local account and the identity
// described by a pending sign-in.
type ServiceProvider interface {
	// ID returns the provider id, e.g. "twitter".
	ID() string
	// Connect links accountID to the provider identity in account.
	Connect(ctx context.Context, accountID string, account SignInAccount) error
}

// Locator resolves provider services by id.
type Locator struct {
	providers map[string]ServiceProvider
}

// NewLocator registers providers by their ID. Registering two providers
// with the same id is an error.
func NewLocator(providers ...ServiceProvider) (*Locator, error) {
	l := &Locator{providers: make(map[string]ServiceProvider, len(providers))}
	for _, p := range providers {
		id := p.ID()
		if id == "" {
			return nil, errors.New("provider id must not be empty")
		}
		if _, ok := l.providers[id]; ok {
			return nil, fmt.Errorf("duplicate provider %q", id)
		}
		l.providers[id] = p
	}
	return l, nil
}

// Lookup returns the provider registered under id.
func (l *Locator) Lookup(id string) (ServiceProvider, error) {
	p, ok := l.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return p, nil
}

// IDs returns the registered provider ids in sorted order.
func (l *Locator) IDs() []string {
	ids := make([]string, 0, len(l.providers))
	for id := range l.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
