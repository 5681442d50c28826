package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLiteErrorClassifier implements [ErrorClassificator] for SQLite using the
// result codes of the mattn/go-sqlite3 driver.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier] ready for use.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator]. SQLITE_BUSY and SQLITE_LOCKED are
// the only transient conditions.
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	sqliteErr, ok := asSQLiteError(err)
	if !ok {
		return NonRetryable
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}

	return NonRetryable
}

// IsUniqueViolation implements [ErrorClassificator].
func (c *SQLiteErrorClassifier) IsUniqueViolation(err error) bool {
	sqliteErr, ok := asSQLiteError(err)
	if !ok {
		return false
	}

	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// IsForeignKeyViolation implements [ErrorClassificator].
func (c *SQLiteErrorClassifier) IsForeignKeyViolation(err error) bool {
	sqliteErr, ok := asSQLiteError(err)
	return ok && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func asSQLiteError(err error) (sqlite3.Error, bool) {
	if err == nil {
		return sqlite3.Error{}, false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr, true
	}

	return sqlite3.Error{}, false
}
