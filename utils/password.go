package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecret creates a random URL-safe secret of at least 32 characters
func GenerateSecret(length int) (string, error) {
	if length < 32 {
		length = 32
	}

	// base64 needs fewer random bytes than output characters
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	secret := base64.RawURLEncoding.EncodeToString(b)
	return secret[:length], nil
}
