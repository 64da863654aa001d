package service

import (
	"context"
	"strings"

	"github.com/velotaller/repair-service/internal/auth"
)

// LocalSessionProvider verifies credentials against the single configured
// shop account. Failures carry the provider code strings the session service
// classifies, so swapping in a remote provider changes nothing above it.
type LocalSessionProvider struct {
	email    string
	hash     string
	disabled bool
}

// NewLocalSessionProvider builds a provider for the shop account. hash is
// the bcrypt hash of the account password.
func NewLocalSessionProvider(email, hash string, disabled bool) *LocalSessionProvider {
	return &LocalSessionProvider{email: email, hash: hash, disabled: disabled}
}

// SignInWithPassword checks the credentials.
func (p *LocalSessionProvider) SignInWithPassword(_ context.Context, email, password string) error {
	if !strings.EqualFold(email, p.email) {
		return &ProviderError{Code: "auth/user-not-found"}
	}
	if p.disabled {
		return &ProviderError{Code: "auth/user-disabled"}
	}
	if err := auth.ComparePassword(p.hash, password); err != nil {
		return &ProviderError{Code: "auth/wrong-password", Err: err}
	}
	return nil
}
