package account

import "time"

// Account is the persisted user record. Ban state is deliberately absent:
// it is derived from banned-role membership in the role store, never cached
// on the account itself.
type Account struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	HashVersion  string
	RegisteredAt time.Time
	LastLoginAt  *time.Time
}
