package session

import (
	"context"
	"time"
)

// Session represents an authenticated account session.
// It intentionally stores identity pointers only, never ban or role state.
type Session struct {
	SessionID         string    // unique session identifier
	AccountID         string    // references accounts.id
	Login             string    // account login-name at sign-in time
	CreatedAt         time.Time
	ExpiresAt         time.Time // sliding expiry, renewed on validated requests
	AbsoluteExpiresAt time.Time // hard ceiling, never extended
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
