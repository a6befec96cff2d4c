package storage

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
)

// schemaMigration is one versioned schema change.
type schemaMigration struct {
	version int
	name    string
	up      func(tx *sql.Tx) error
}

// schemaMigrations lists every migration in ascending version order.
var schemaMigrations = []schemaMigration{
	{version: 1, name: "strings_table", up: migrateV001},
}

// MigrationRunner brings a SQLite database up to the latest schema.
type MigrationRunner struct {
	db         *sql.DB
	migrations []schemaMigration
}

// NewMigrationRunner creates a MigrationRunner with all registered migrations.
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db, migrations: schemaMigrations}
}

// Run applies every migration not yet recorded in schema_migrations, each
// in its own transaction.
func (r *MigrationRunner) Run(ctx context.Context) error {
	// journal_mode stays "memory" for in-memory databases.
	if _, err := r.db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		return errors.Wrap(err, "set WAL mode")
	}

	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return errors.Wrap(err, "create schema_migrations table")
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range r.migrations {
		if applied[m.version] {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return errors.Wrapf(err, "apply migration %d (%s)", m.version, m.name)
		}
	}
	return nil
}

// Version returns the highest applied schema version, 0 for a fresh database.
func (r *MigrationRunner) Version(ctx context.Context) (int, error) {
	var v sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, errors.Wrap(err, "read schema version")
	}
	return int(v.Int64), nil
}

func (r *MigrationRunner) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "list applied migrations")
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan migration version")
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (r *MigrationRunner) apply(ctx context.Context, m schemaMigration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.up(tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.version, m.name,
	); err != nil {
		return errors.Wrap(err, "record migration")
	}

	return tx.Commit()
}
