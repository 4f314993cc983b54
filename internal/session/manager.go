package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredential is returned by Authenticate when the password does not
// match the stored hash. Callers decide how to surface it.
var ErrBadCredential = errors.New("session: credential verification failed")

// Identity is the account identity bound to a validated session.
type Identity struct {
	AccountID string
	Login     string
}

// Manager issues, validates, and revokes cookie-bound sessions.
//
// It knows nothing about roles or ban state: ban decisions belong to the
// request guard and the account service. The manager only guarantees that a
// session maps to the identity it was issued for and that expiry rules hold.
type Manager struct {
	store  Store
	ttl    time.Duration
	absTTL time.Duration
	cookie CookieOptions
}

func NewManager(store Store, ttl, absoluteTTL time.Duration, cookie CookieOptions) *Manager {
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	if absoluteTTL < ttl {
		absoluteTTL = ttl
	}
	return &Manager{
		store:  store,
		ttl:    ttl,
		absTTL: absoluteTTL,
		cookie: cookie,
	}
}

// SignIn revokes any session already bound to the request, then issues a
// fresh one for ident. Sign-out-before-sign-in ordering avoids a stale dual
// session when an authenticated caller logs in again.
func (m *Manager) SignIn(ctx context.Context, w http.ResponseWriter, r *http.Request, ident Identity) error {
	if err := m.SignOut(ctx, w, r); err != nil {
		return err
	}

	sessionID, err := GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	sess := Session{
		SessionID:         sessionID,
		AccountID:         ident.AccountID,
		Login:             ident.Login,
		CreatedAt:         now,
		ExpiresAt:         now.Add(m.ttl),
		AbsoluteExpiresAt: now.Add(m.absTTL),
	}
	if sess.ExpiresAt.After(sess.AbsoluteExpiresAt) {
		sess.ExpiresAt = sess.AbsoluteExpiresAt
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return err
	}

	writeCookie(w, sessionID, sess.AbsoluteExpiresAt, m.cookie)
	return nil
}

// SignOut revokes the session bound to the request and clears the cookie.
// Ending a non-existent session is a no-op.
func (m *Manager) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if sessionID := requestSessionID(r); sessionID != "" {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return err
		}
	}
	expireCookie(w, m.cookie)
	return nil
}

// Current returns the identity bound to the request's session, or nil when
// the request carries no valid session. It reads only the session store,
// never the account or role stores.
//
// A valid session gets its sliding expiry renewed, capped by the absolute
// expiry set at sign-in.
func (m *Manager) Current(ctx context.Context, r *http.Request) (*Identity, error) {
	sessionID := requestSessionID(r)
	if sessionID == "" {
		return nil, nil
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	now := time.Now()
	if now.After(sess.ExpiresAt) || now.After(sess.AbsoluteExpiresAt) {
		_ = m.store.Delete(ctx, sessionID)
		return nil, nil
	}

	// Sliding renewal on activity.
	renewed := now.Add(m.ttl)
	if renewed.After(sess.AbsoluteExpiresAt) {
		renewed = sess.AbsoluteExpiresAt
	}
	if renewed.After(sess.ExpiresAt) {
		sess.ExpiresAt = renewed
		if err := m.store.Update(ctx, *sess); err != nil {
			return nil, err
		}
	}

	return &Identity{AccountID: sess.AccountID, Login: sess.Login}, nil
}

// Authenticate verifies password against the stored bcrypt hash and, on
// success, establishes a session for ident. It returns ErrBadCredential on
// mismatch without touching session state.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, ident Identity, passwordHash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return ErrBadCredential
	}
	return m.SignIn(ctx, w, r, ident)
}
