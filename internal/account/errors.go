package account

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidCredentialsMessage is the single generic message for both an unknown
// login and a wrong password, so responses never disclose which one failed.
const InvalidCredentialsMessage = "Invalid Login or password"

// ErrInvalidCredentials covers unknown login-name and wrong password alike.
var ErrInvalidCredentials = errors.New(InvalidCredentialsMessage)

// ErrNotFound is returned by stores when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// BlockedError rejects a login whose credentials are valid but whose account
// holds the banned role. Its message is intentionally distinct from
// ErrInvalidCredentials: the user is expected to contact support.
type BlockedError struct {
	Login string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("User '%s' was blocked", e.Login)
}

// ValidationErrors maps field names to human-readable messages for malformed
// input. No state is mutated when input fails validation.
type ValidationErrors map[string][]string

func (v ValidationErrors) Error() string {
	var parts []string
	for field, msgs := range v {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (v ValidationErrors) add(field, msg string) {
	v[field] = append(v[field], msg)
}

// StoreError carries field-less messages from a store that rejected an
// operation (e.g. a uniqueness violation), surfaced to the user verbatim.
// Bulk operations also use it to combine per-item failures.
type StoreError struct {
	Messages []string
}

func (e *StoreError) Error() string {
	return strings.Join(e.Messages, "; ")
}
