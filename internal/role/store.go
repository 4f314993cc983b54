// Package role owns role membership. Only one role matters to this system:
// Banned. Membership of it is the sole ban signal; no status column exists.
package role

import "context"

// Banned is the moderation role. Presence of the membership relation is the
// ban state, so banning and unbanning are pure membership writes.
const Banned = "Banned"

// Store is the persistence boundary for role membership.
type Store interface {
	IsMember(ctx context.Context, accountID, roleName string) (bool, error)
	AddMember(ctx context.Context, accountID, roleName string) error
	RemoveMember(ctx context.Context, accountID, roleName string) error
	EnsureRole(ctx context.Context, roleName string) error
}

// Seed creates the banned role if it does not exist yet. It is idempotent
// and must run before the request pipeline accepts traffic.
func Seed(ctx context.Context, store Store) error {
	return store.EnsureRole(ctx, Banned)
}
