package middleware

import (
	"context"
	"net/http"

	"github.com/Veaberji/Auth/internal/session"
)

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(session.Identity)
	return ident, ok
}

type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

// RequireAuth rejects requests without a valid session. The ban guard runs
// earlier in the chain, so by the time this executes a banned or deleted
// account has already lost its session.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := a.Sessions.Current(r.Context(), r)
		if err != nil || ident == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, *ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
