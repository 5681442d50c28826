// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// no expectations: the first statement goose issues fails
	err = Migrate(context.Background(), db, Postgres)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(context.Background(), db, SQLite)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db is nil"), "got: %v", err)
}

func TestMigrate_UnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(context.Background(), db, "oracle")
	assert.ErrorIs(t, err, errUnknownDialect)
}

func TestNewProvider_ListsInitMigration(t *testing.T) {
	for _, dialect := range []string{Postgres, SQLite} {
		db, _, err := sqlmock.New()
		require.NoError(t, err)

		p, err := NewProvider(db, dialect)
		require.NoError(t, err, dialect)

		sources := p.ListSources()
		require.Len(t, sources, 1, dialect)
		assert.Equal(t, int64(1), sources[0].Version)

		db.Close()
	}
}

func TestMigrate_SQLiteSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrate_schema?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, SQLite))
	// a second run finds nothing pending
	require.NoError(t, Migrate(ctx, db, SQLite))

	for _, table := range []string{"users", "credentials"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	_, err = db.ExecContext(ctx, "INSERT INTO users (username, master_password_hash) VALUES ('', 'h')")
	assert.Error(t, err, "empty usernames violate the CHECK constraint")

	_, err = db.ExecContext(ctx, "INSERT INTO credentials (owner_id, site_label, secret_blob) VALUES (999, 'mail', 'blob')")
	assert.Error(t, err, "credentials must reference an existing user")
}
