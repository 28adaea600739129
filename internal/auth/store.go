// Package auth obtains and stores org access tokens.
package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"modx/internal/logger"
)

const KeyringService = "modx"

var AuthLogs = logger.PackageLogger("auth", "🔑 AUTH")

// TokenStore keeps one access token per org alias in the OS keyring.
type TokenStore struct {
	service string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{service: KeyringService}
}

func (s *TokenStore) Save(alias, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(s.service, alias, token); err != nil {
		return fmt.Errorf("storing token for %s in keyring: %w", alias, err)
	}
	AuthLogs.Debug("stored token for %s", alias)
	return nil
}

func (s *TokenStore) Load(alias string) (string, error) {
	token, err := keyring.Get(s.service, alias)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNoCredentials, alias)
	}
	if err != nil {
		return "", fmt.Errorf("loading token for %s from keyring: %w", alias, err)
	}
	return token, nil
}

// Delete is idempotent.
func (s *TokenStore) Delete(alias string) error {
	err := keyring.Delete(s.service, alias)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing token for %s from keyring: %w", alias, err)
	}
	return nil
}
