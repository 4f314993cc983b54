package account

import "context"

// Store is the persistence boundary for accounts.
//
// Lookups return ErrNotFound on a miss. Create, Update, and Delete return
// *StoreError when the store rejects the operation with user-facing messages
// (uniqueness violations); any other error means the store itself failed.
type Store interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByName(ctx context.Context, login string) (*Account, error)
	All(ctx context.Context) ([]*Account, error)
	Create(ctx context.Context, a *Account, password string) error
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, a *Account) error
}
