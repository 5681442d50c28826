// Package migrations embeds the schema of the vault, one goose migration
// directory per SQL dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Dialect names accepted by [Migrate].
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

var (
	errNilDB          = errors.New("db is nil")
	errUnknownDialect = errors.New("unknown migration dialect")
)

// Migrate applies all pending migrations of dialect to db.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}

	if _, err = provider.Up(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// NewProvider returns a goose provider over the migrations of dialect.
func NewProvider(db *sql.DB, dialect string) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("migration error: %w", errNilDB)
	}

	var gooseDialect goose.Dialect
	switch dialect {
	case Postgres:
		gooseDialect = goose.DialectPostgres
	case SQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("migration error: %w: %q", errUnknownDialect, dialect)
	}

	dir, err := fs.Sub(embedMigrations, dialect)
	if err != nil {
		return nil, fmt.Errorf("migration error reading %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, dir)
	if err != nil {
		return nil, fmt.Errorf("migration error creating provider: %w", err)
	}

	return provider, nil
}
