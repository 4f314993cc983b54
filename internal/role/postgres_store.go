package role

import (
	"context"
	"fmt"

	"github.com/Veaberji/Auth/internal/db"
)

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) IsMember(ctx context.Context, accountID, roleName string) (bool, error) {
	var isMember bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM account_roles ar
			JOIN roles r ON r.id = ar.role_id
			WHERE ar.account_id = $1
			  AND r.name = $2
		)
	`, accountID, roleName).Scan(&isMember)

	if err != nil {
		return false, err
	}
	return isMember, nil
}

func (s *PostgresStore) AddMember(ctx context.Context, accountID, roleName string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO account_roles (account_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`, accountID, roleName)

	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the role is unknown or the membership already exists.
		// Existing membership is fine; an unknown role is a setup bug.
		return s.requireRole(ctx, roleName)
	}
	return nil
}

func (s *PostgresStore) RemoveMember(ctx context.Context, accountID, roleName string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM account_roles
		WHERE account_id = $1
		  AND role_id = (SELECT id FROM roles WHERE name = $2)
	`, accountID, roleName)
	return err
}

func (s *PostgresStore) EnsureRole(ctx context.Context, roleName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roles (name)
		VALUES ($1)
		ON CONFLICT ON CONSTRAINT roles_name_unique DO NOTHING
	`, roleName)
	return err
}

func (s *PostgresStore) requireRole(ctx context.Context, roleName string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)
	`, roleName).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("role: role %q does not exist", roleName)
	}
	return nil
}
