package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateCancelToken returns a single-use, unguessable cancellation token:
// 32 random bytes, URL-safe base64 without padding.
func GenerateCancelToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
