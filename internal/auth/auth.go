// Package auth provides the identity of the person using the client.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/steuerklar/steuerklar/internal/config"
)

// ErrNoIdentity is returned when no taxpayer is configured.
var ErrNoIdentity = errors.New("no identity configured")

// Identity is the authenticated taxpayer.
type Identity struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// DisplayName returns the name, falling back to the email address.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Provider resolves the current identity.
type Provider interface {
	Current(ctx context.Context) (Identity, error)
}

// StaticProvider always returns the same identity.
type StaticProvider struct {
	identity Identity
}

// NewStaticProvider returns a provider for id. An empty ID is derived from
// the email address so that it is stable across runs.
func NewStaticProvider(id Identity) *StaticProvider {
	if id.ID == "" && id.Email != "" {
		id.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(id.Email))).String()
	}
	return &StaticProvider{identity: id}
}

// FromConfig builds a provider from the taxpayer section of cfg.
func FromConfig(cfg *config.Config) *StaticProvider {
	return NewStaticProvider(Identity{
		ID:    cfg.Taxpayer.ID,
		Name:  cfg.Taxpayer.Name,
		Email: cfg.Taxpayer.Email,
	})
}

// Current implements Provider.
func (p *StaticProvider) Current(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	if p.identity.DisplayName() == "" {
		return Identity{}, fmt.Errorf("resolving identity: %w", ErrNoIdentity)
	}
	return p.identity, nil
}
