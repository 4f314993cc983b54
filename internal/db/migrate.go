package db

import (
	"context"
	"database/sql"
)

const keystoneMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS accounts (
    id uuid PRIMARY KEY,
    login text NOT NULL,
    email text NOT NULL,
    password_hash text NOT NULL,
    hash_version text NOT NULL,
    registered_at timestamptz NOT NULL DEFAULT NOW(),
    last_login_at timestamptz
);

CREATE UNIQUE INDEX IF NOT EXISTS accounts_login_unique
ON accounts (LOWER(login));

CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_unique
ON accounts (LOWER(email));

CREATE TABLE IF NOT EXISTS roles (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL,
    CONSTRAINT roles_name_unique UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS account_roles (
    account_id uuid NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    role_id uuid NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
    PRIMARY KEY (account_id, role_id)
);
`

func RunKeystoneMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, keystoneMigration)
	return err
}
