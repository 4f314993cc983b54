package middleware

import (
	"errors"
	"net/http"

	"github.com/Veaberji/Auth/internal/account"
	"github.com/Veaberji/Auth/internal/role"
	"github.com/Veaberji/Auth/internal/session"
)

// BanGuard revokes the session of any caller whose account is banned or no
// longer exists. It runs on every inbound request before handler logic, so a
// ban applied mid-session takes effect on the very next request.
type BanGuard struct {
	Sessions *session.Manager
	Accounts account.Store
	Roles    role.Store
}

func NewBanGuard(sessions *session.Manager, accounts account.Store, roles role.Store) *BanGuard {
	return &BanGuard{
		Sessions: sessions,
		Accounts: accounts,
		Roles:    roles,
	}
}

// Enforce checks the current identity against live account state:
//
//  1. no identity: pass through unchanged
//  2. account gone (deleted): end the session, fail closed
//  3. account banned: end the session
//  4. continue with the possibly now-unauthenticated request
//
// An unreachable store fails the request instead of mutating session state.
func (g *BanGuard) Enforce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ident, err := g.Sessions.Current(ctx, r)
		if err != nil {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		if ident != nil {
			a, err := g.Accounts.FindByName(ctx, ident.Login)
			switch {
			case errors.Is(err, account.ErrNotFound):
				// fail closed: a revocation that cannot be confirmed must
				// not let the request proceed authenticated
				if err := g.Sessions.SignOut(ctx, w, r); err != nil {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
			case err != nil:
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			default:
				banned, err := g.Roles.IsMember(ctx, a.ID, role.Banned)
				if err != nil {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				if banned {
					if err := g.Sessions.SignOut(ctx, w, r); err != nil {
						http.Error(w, "service unavailable", http.StatusServiceUnavailable)
						return
					}
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
