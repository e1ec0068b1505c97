// Package secrets stores the TrainHub bearer token in the OS keyring
// (macOS Keychain, Windows Credential Manager, Secret Service on
// Linux).
package secrets

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/trainhub/trainctl/pkg/config"
)

// ServiceName identifies trainctl entries in the keyring.
const ServiceName = "trainctl"

// ErrNotFound is returned when no token is stored for an account.
var ErrNotFound = errors.New("no stored token")

// Store persists bearer tokens keyed by account email.
type Store struct {
	service string
}

// NewStore creates a keyring-backed token store.
func NewStore() *Store {
	return &Store{service: ServiceName}
}

// Set saves the token for an account, replacing any existing one.
func (s *Store) Set(account, token string) error {
	if err := keyring.Set(s.service, account, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Get retrieves the token for an account.
func (s *Store) Get(account string) (string, error) {
	token, err := keyring.Get(s.service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// Delete removes the token for an account. Deleting a missing token is
// not an error.
func (s *Store) Delete(account string) error {
	err := keyring.Delete(s.service, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// TokenSource resolves the bearer token for API calls. Precedence:
// process environment, then keyring, then the config-file fallback.
type TokenSource struct {
	store    *Store
	account  string
	fallback string
}

// NewTokenSource builds a TokenSource for the given account. fallback
// is the token from the config file, if any.
func NewTokenSource(store *Store, account, fallback string) *TokenSource {
	return &TokenSource{store: store, account: account, fallback: fallback}
}

// Token implements client.TokenSource. It returns "" when no session
// is active.
func (t *TokenSource) Token() string {
	if v := os.Getenv(config.EnvToken); v != "" {
		return v
	}
	if t.store != nil && t.account != "" {
		if token, err := t.store.Get(t.account); err == nil {
			return token
		}
	}
	return t.fallback
}
