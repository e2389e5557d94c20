package postgres

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/samber/lo"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is a single versioned schema change
type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded migrations in version order
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		migrations = append(migrations, Migration{
			Version: name[len("migrations/") : len(name)-len(".sql")],
			SQL:     string(body),
		})
	}
	return migrations, nil
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies pending migrations, each in its own transaction, and
// returns the versions it applied.
func Migrate(ctx context.Context, db *DB, log *logger.Logger) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create schema_migrations table").
			Mark(ierr.ErrDatabase)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, "SELECT version FROM schema_migrations"); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	var ran []string
	for _, m := range migrations {
		if lo.Contains(applied, m.Version) {
			continue
		}

		log.Infow("applying migration", "version", m.Version)
		err := db.WithTx(ctx, func(ctx context.Context) error {
			q := db.GetQuerier(ctx)
			if _, err := q.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.Version)
			return err
		})
		if err != nil {
			return ran, ierr.WithError(err).
				WithHintf("Migration %s failed", m.Version).
				Mark(ierr.ErrDatabase)
		}
		ran = append(ran, m.Version)
	}

	return ran, nil
}
