// Package credentials stores the OpenRouter API key in the OS keyring.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const service = "comedyclip"

// Lookup returns the stored key, or "" when none is stored or the keyring is
// unavailable.
func Lookup() string {
	key, err := Get()
	if err != nil {
		return ""
	}
	return key
}

// Get returns the stored key. A missing entry is not an error.
func Get() (string, error) {
	key, err := keyring.Get(service, systemUser())
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return strings.TrimSpace(key), nil
}

func Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key is empty")
	}
	if err := keyring.Set(service, systemUser(), key); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}

// Delete removes the stored key. Deleting a missing entry succeeds.
func Delete() error {
	err := keyring.Delete(service, systemUser())
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete keyring: %w", err)
	}
	return nil
}

func systemUser() string {
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows
	}
	if username == "" {
		username = "anon"
	}
	return username
}
