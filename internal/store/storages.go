package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

// Storages groups the repositories of the vault over one database
// connection so they can be handed to the service layer together.
type Storages struct {
	UserRepository       UserRepository
	CredentialRepository CredentialRepository

	db *DB
}

// NewStorages initialises the storage layer:
//  1. Opens the database selected by cfg.DB.Driver.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires the repositories to the connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info().Str("dialect", string(db.Dialect())).Msg("storage is ready")

	return NewStoragesFromDB(db, log), nil
}

// NewStoragesFromDB wires the repositories to an already migrated db.
func NewStoragesFromDB(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		CredentialRepository: NewCredentialRepository(db, log),
		db:                   db,
	}
}

// Close releases the underlying connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
