package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// GenerateRandomString returns a URL-safe random string of exactly n characters.
func GenerateRandomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("random string length must be positive")
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
