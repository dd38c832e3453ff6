package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Compile-time interface check.
var _ domain.SecureStore = (*KeyringStore)(nil)

// DefaultKeyringService is the service name entries are filed under in
// the OS keychain.
const DefaultKeyringService = "lumiere"

// KeyringStore keeps values in the OS keychain (macOS Keychain, Secret
// Service on Linux, Windows Credential Manager).
type KeyringStore struct {
	service string
	log     *logger.Logger
}

// NewKeyringStore creates a keychain-backed store under service. An empty
// service uses DefaultKeyringService.
func NewKeyringStore(service string, log *logger.Logger) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service, log: log}
}

// Get reads the secret stored under key.
func (s *KeyringStore) Get(ctx context.Context, key string) (string, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		s.log.Debug("key not found in keyring: %s", key)
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring: get %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key.
func (s *KeyringStore) Set(ctx context.Context, key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring: set %s: %w", key, err)
	}
	s.log.Debug("stored %s in keyring", key)
	return nil
}

// Delete removes key. A missing key is not an error.
func (s *KeyringStore) Delete(ctx context.Context, key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring: delete %s: %w", key, err)
	}
	s.log.Debug("deleted %s from keyring", key)
	return nil
}
