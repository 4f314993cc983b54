package account

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	HashVersionBcrypt = "bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt.
// Password policy is deliberately permissive; length bounds are enforced by
// the service's input validation, not here.
func HashPassword(password string) (hash string, version string, err error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", "", err
	}

	return string(bytes), HashVersionBcrypt, nil
}
