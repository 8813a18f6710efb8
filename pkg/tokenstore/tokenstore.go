// Package tokenstore persists the push token in the operating system keyring
// so it survives restarts without ever touching plain files.
package tokenstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	defaultService = "com.hexidecibel.companion"
	tokenKey       = "push-token"
)

// Store reads and writes the push token under a keyring service name.
type Store struct {
	service string
}

// New returns a Store using the Companion keyring service.
func New() *Store {
	return &Store{service: defaultService}
}

// NewForService returns a Store scoped to a custom service name.
// Used by tests to avoid touching the real entry.
func NewForService(service string) *Store {
	return &Store{service: service}
}

// Save writes the token, replacing any previous value.
func (s *Store) Save(token string) error {
	if err := keyring.Set(s.service, tokenKey, token); err != nil {
		return fmt.Errorf("store push token: %w", err)
	}
	return nil
}

// Load returns the stored token. ok is false when no token has been saved.
func (s *Store) Load() (token string, ok bool, err error) {
	token, err = keyring.Get(s.service, tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read push token: %w", err)
	}
	return token, true, nil
}

// Clear removes the stored token. Removing a token that was never stored is
// not an error.
func (s *Store) Clear() error {
	if err := keyring.Delete(s.service, tokenKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clear push token: %w", err)
	}
	return nil
}
