package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Veaberji/Auth/internal/role"
	"github.com/Veaberji/Auth/internal/session"
)

// MaxFieldLength bounds login and email input.
const MaxFieldLength = 256

// MaxPasswordLength matches bcrypt's 72-byte input limit, so every password
// that passes validation can actually be hashed.
const MaxPasswordLength = 72

// Service implements the account workflows: register, login, logout, and the
// administrator bulk ban/unban/delete operations. It composes the session
// manager and the two stores; all dependencies are passed in explicitly.
type Service struct {
	accounts Store
	roles    role.Store
	sessions *session.Manager
}

func NewService(accounts Store, roles role.Store, sessions *session.Manager) *Service {
	return &Service{
		accounts: accounts,
		roles:    roles,
		sessions: sessions,
	}
}

type RegisterInput struct {
	Login           string `json:"login"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (in RegisterInput) validate() error {
	errs := ValidationErrors{}
	requireBounded(errs, "login", in.Login, MaxFieldLength)
	requireBounded(errs, "email", in.Email, MaxFieldLength)
	requireBounded(errs, "password", in.Password, MaxPasswordLength)
	if len(in.ConfirmPassword) > MaxPasswordLength {
		errs.add("confirm_password", "The confirm_password field is too long")
	}
	if in.ConfirmPassword != in.Password {
		errs.add("confirm_password", "Passwords do not match")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Register creates the account. The new account is NOT signed in:
// registration and login are deliberately decoupled.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	a := &Account{
		Login:        in.Login,
		Email:        in.Email,
		RegisteredAt: time.Now(),
	}
	return s.accounts.Create(ctx, a, in.Password)
}

type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (in LoginInput) validate() error {
	errs := ValidationErrors{}
	requireBounded(errs, "login", in.Login, MaxFieldLength)
	requireBounded(errs, "password", in.Password, MaxPasswordLength)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Login authenticates the caller and establishes a session.
//
// Unknown login and wrong password collapse into the same generic
// ErrInvalidCredentials so responses never reveal which field was wrong. A
// banned account with a correct login is rejected with the distinct
// BlockedError before the password is ever checked.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, in LoginInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	a, err := s.accounts.FindByName(ctx, in.Login)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	banned, err := s.roles.IsMember(ctx, a.ID, role.Banned)
	if err != nil {
		return err
	}
	if banned {
		return &BlockedError{Login: a.Login}
	}

	// Force sign-out first so a failed attempt never leaves the previous
	// session alive alongside a half-established one.
	if err := s.sessions.SignOut(ctx, w, r); err != nil {
		return err
	}

	ident := session.Identity{AccountID: a.ID, Login: a.Login}
	if err := s.sessions.Authenticate(ctx, w, r, ident, a.PasswordHash, in.Password); err != nil {
		if errors.Is(err, session.ErrBadCredential) {
			return ErrInvalidCredentials
		}
		return err
	}

	now := time.Now()
	a.LastLoginAt = &now
	return s.accounts.Update(ctx, a)
}

// Logout ends the caller's session unconditionally.
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return s.sessions.SignOut(ctx, w, r)
}

// BanAll adds the banned role to every resolvable id. Missing ids are
// skipped silently; per-item store failures are collected and the rest of
// the batch still runs.
func (s *Service) BanAll(ctx context.Context, ids []string) error {
	return s.eachAccount(ctx, ids, func(a *Account) error {
		return s.roles.AddMember(ctx, a.ID, role.Banned)
	})
}

// UnbanAll removes the banned role from every resolvable id.
func (s *Service) UnbanAll(ctx context.Context, ids []string) error {
	return s.eachAccount(ctx, ids, func(a *Account) error {
		return s.roles.RemoveMember(ctx, a.ID, role.Banned)
	})
}

// DeleteAll deletes every resolvable id. Deleting the caller's own account
// ends the caller's session within the same request.
func (s *Service) DeleteAll(ctx context.Context, w http.ResponseWriter, r *http.Request, ids []string) error {
	caller, err := s.sessions.Current(ctx, r)
	if err != nil {
		return err
	}

	return s.eachAccount(ctx, ids, func(a *Account) error {
		if err := s.accounts.Delete(ctx, a); err != nil {
			return err
		}
		if caller != nil && caller.Login == a.Login {
			return s.sessions.SignOut(ctx, w, r)
		}
		return nil
	})
}

// eachAccount runs op per resolvable id, preserving input order for error
// reporting. One id's failure never affects another's outcome.
func (s *Service) eachAccount(ctx context.Context, ids []string, op func(a *Account) error) error {
	var messages []string
	for _, id := range ids {
		a, err := s.accounts.FindByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue // bulk operations are best-effort per item
		}
		if err != nil {
			messages = append(messages, err.Error())
			continue
		}
		if err := op(a); err != nil {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) > 0 {
		return &StoreError{Messages: messages}
	}
	return nil
}

// Listed pairs an account with its current ban state for the admin view.
type Listed struct {
	Account *Account
	Banned  bool
}

// List returns every account with the banned flag computed per account at
// request time, never cached.
func (s *Service) List(ctx context.Context) ([]Listed, error) {
	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return nil, err
	}

	listed := make([]Listed, 0, len(accounts))
	for _, a := range accounts {
		banned, err := s.roles.IsMember(ctx, a.ID, role.Banned)
		if err != nil {
			return nil, err
		}
		listed = append(listed, Listed{Account: a, Banned: banned})
	}
	return listed, nil
}

func requireBounded(errs ValidationErrors, field, value string, max int) {
	if value == "" {
		errs.add(field, "The "+field+" field is required")
		return
	}
	if len(value) > max {
		errs.add(field, "The "+field+" field is too long")
	}
}
