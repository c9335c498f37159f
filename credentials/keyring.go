package credentials

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "hospital-nexus"

type KeyType string

const KeyGemini KeyType = "gemini_api_key"

// ErrNotFound is returned when no value is stored for a key.
var ErrNotFound = keyring.ErrNotFound

func Set(key KeyType, value string) error {
	return keyring.Set(serviceName, string(key), value)
}

func Get(key KeyType) (string, error) {
	return keyring.Get(serviceName, string(key))
}

// Delete removes a stored key. Deleting a key that was never stored is not an error.
func Delete(key KeyType) error {
	err := keyring.Delete(serviceName, string(key))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// GetOrEnv prefers the environment value and falls back to the keyring.
func GetOrEnv(key KeyType, envValue string) string {
	if envValue != "" {
		return envValue
	}
	val, err := Get(key)
	if err != nil {
		return ""
	}
	return val
}

func IsConfigured(key KeyType) bool {
	_, err := Get(key)
	return err == nil
}
