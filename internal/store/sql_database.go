package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/migrations"
)

// Dialect names the SQL flavour behind a [DB].
type Dialect string

const (
	DialectPostgres Dialect = config.DriverPostgres
	DialectSQLite   Dialect = config.DriverSQLite
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories run queries on.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrorClassificator inspects driver errors of one SQL dialect.
type ErrorClassificator interface {
	// Classify reports whether a failed operation may succeed if retried.
	Classify(err error) ErrorClassification
	// IsUniqueViolation reports a unique constraint failure.
	IsUniqueViolation(err error) bool
	// IsForeignKeyViolation reports a foreign key constraint failure.
	IsForeignKeyViolation(err error) bool
}

// DB is a connection pool bound to one dialect together with the matching
// driver error classifier.
type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect Dialect, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		logger:  log,
	}

	switch dialect {
	case DialectSQLite:
		db.errorClassificator = NewSQLiteErrorClassifier()
	default:
		db.errorClassificator = NewPostgresErrorClassifier()
	}

	return db
}

// NewConnect opens the database selected by cfg.Driver.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite, "":
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Dialect returns the SQL flavour of db.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate applies every pending schema migration of the dialect.
func (db *DB) Migrate(ctx context.Context) error {
	if err := migrations.Migrate(ctx, db.DB, string(db.Dialect())); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return nil
}

// builder returns a squirrel statement builder with the dialect's
// placeholder format.
func (db *DB) builder() sq.StatementBuilderType {
	if db.Dialect() == DialectSQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}

	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics.
func (db *DB) WithTx(ctx context.Context, fn func(tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return db.unavailable(ErrBeginningTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Err(rbErr).Str("func", "*DB.WithTx").Msg("rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return db.unavailable(ErrCommitingTransaction, err)
	}

	return nil
}

// unavailable wraps a driver failure of operation op.
func (db *DB) unavailable(op, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrStorageUnavailable, op, err)
}

// retryable reports the classification of err for log fields.
func (db *DB) retryable(err error) bool {
	return db.errorClassificator.Classify(err) == Retryable
}
