package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Veaberji/Auth/internal/db"
)

const uniqueViolation = "23505"

// PostgresStore is the canonical Store backed by the accounts table.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `
	id, login, email, password_hash, hash_version, registered_at, last_login_at
`

func scanAccount(row interface{ Scan(dest ...any) error }) (*Account, error) {
	var (
		a         Account
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&a.ID,
		&a.Login,
		&a.Email,
		&a.PasswordHash,
		&a.HashVersion,
		&a.RegisteredAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLoginAt = &lastLogin.Time
	}
	return &a, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, login string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(login) = LOWER($1)
	`, login)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY registered_at, login
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Create hashes the credential and inserts the account. Uniqueness
// violations surface as *StoreError with user-facing messages.
func (s *PostgresStore) Create(ctx context.Context, a *Account, password string) error {
	hash, version, err := HashPassword(password)
	if err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.PasswordHash = hash
	a.HashVersion = version

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, login, email, password_hash, hash_version, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Login, a.Email, a.PasswordHash, a.HashVersion, a.RegisteredAt)

	if err != nil {
		return s.asStoreError(err, a)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, a *Account) error {
	var lastLogin sql.NullTime
	if a.LastLoginAt != nil {
		lastLogin = sql.NullTime{Time: *a.LastLoginAt, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET login = $2, email = $3, password_hash = $4, hash_version = $5, last_login_at = $6
		WHERE id = $1
	`, a.ID, a.Login, a.Email, a.PasswordHash, a.HashVersion, lastLogin)

	if err != nil {
		return s.asStoreError(err, a)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, a *Account) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM accounts
		WHERE id = $1
	`, a.ID)
	return err
}

// asStoreError translates driver-level constraint violations into the
// user-facing StoreError taxonomy; anything else passes through unchanged.
func (s *PostgresStore) asStoreError(err error, a *Account) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}

	switch pqErr.Constraint {
	case "accounts_login_unique":
		return &StoreError{Messages: []string{
			fmt.Sprintf("Login '%s' is already taken", a.Login),
		}}
	case "accounts_email_unique":
		return &StoreError{Messages: []string{
			fmt.Sprintf("Email '%s' is already taken", a.Email),
		}}
	default:
		return &StoreError{Messages: []string{pqErr.Message}}
	}
}
