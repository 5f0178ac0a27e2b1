package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitstreak/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the entry
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(entry string) (string, error) {
	secret, err := keyring.Get(constants.AppName, entry)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(entry, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", entry)
	}
	if err := keyring.Set(constants.AppName, entry, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

func remove(entry string) error {
	err := keyring.Delete(constants.AppName, entry)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}

// GetToken returns the stored API access token
func GetToken() (string, error) { return get(constants.KeyringTokenUser) }

func SetToken(token string) error { return set(constants.KeyringTokenUser, token) }

func DeleteToken() error { return remove(constants.KeyringTokenUser) }

// GetConnectionString returns the stored PostgreSQL connection string
func GetConnectionString() (string, error) { return get(constants.KeyringConnStringUser) }

func SetConnectionString(connStr string) error {
	return set(constants.KeyringConnStringUser, connStr)
}

func DeleteConnectionString() error { return remove(constants.KeyringConnStringUser) }

// IsAvailable is a best-effort probe of the OS keyring
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
