package postgres

import (
	"context"
	"fmt"
)

// Table names of the directory schema.
const (
	OrganizationsTable = "dir_organizations"
	EmployeesTable     = "dir_employees"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS dir_organizations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		path       TEXT NOT NULL,
		version    INTEGER NOT NULL DEFAULT 1,
		attributes JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS dir_organizations_name_key
		ON dir_organizations (lower(name))`,
	`CREATE TABLE IF NOT EXISTS dir_employees (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES dir_organizations (id) ON DELETE CASCADE,
		username        TEXT NOT NULL,
		email           TEXT NOT NULL DEFAULT '',
		first_name      TEXT NOT NULL DEFAULT '',
		last_name       TEXT NOT NULL DEFAULT '',
		enabled         BOOLEAN NOT NULL DEFAULT TRUE,
		version         INTEGER NOT NULL DEFAULT 1,
		attributes      JSONB,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS dir_employees_username_key
		ON dir_employees (lower(username))`,
	`CREATE INDEX IF NOT EXISTS dir_employees_organization_idx
		ON dir_employees (organization_id, username)`,
}

// EnsureSchema creates the directory tables if they do not exist yet.
func EnsureSchema(ctx context.Context, m *TxManager) error {
	return m.RunInTransaction(ctx, func(ctx context.Context) error {
		q := m.GetQuerier(ctx)
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}
