package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// sessionIDBytes is the entropy behind a session credential: 256 bits, far
// beyond guessability within any session's lifetime.
const sessionIDBytes = 32

// GenerateID returns a new opaque session credential.
func GenerateID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
