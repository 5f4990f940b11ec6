package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateUp applies all pending migrations.
func MigrateUp(connURL string) error {
	m, err := newMigrator(connURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations; steps <= 0 rolls
// back everything.
func MigrateDown(connURL string, steps int) error {
	m, err := newMigrator(connURL)
	if err != nil {
		return err
	}
	defer m.Close()
	var migErr error
	if steps > 0 {
		migErr = m.Steps(-steps)
	} else {
		migErr = m.Down()
	}
	if migErr != nil && !errors.Is(migErr, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", migErr)
	}
	return nil
}

func newMigrator(connURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(connURL))
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// pgx5URL rewrites a postgres URL scheme to the one the migrate pgx/v5
// driver registers under.
func pgx5URL(connURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(connURL, scheme)
		}
	}
	return connURL
}
