package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	c := NewPostgresErrorClassifier()

	retryable := []string{
		pgerrcode.ConnectionException,
		pgerrcode.ConnectionFailure,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.CannotConnectNow,
	}
	for _, code := range retryable {
		assert.Equalf(t, Retryable, c.Classify(pgError(code)), "code %s", code)
	}

	nonRetryable := []string{
		pgerrcode.UniqueViolation,
		pgerrcode.ForeignKeyViolation,
		pgerrcode.CheckViolation,
		pgerrcode.SyntaxError,
		pgerrcode.UndefinedTable,
	}
	for _, code := range nonRetryable {
		assert.Equalf(t, NonRetryable, c.Classify(pgError(code)), "code %s", code)
	}

	assert.Equal(t, NonRetryable, c.Classify(nil))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("plain")))
	assert.Equal(t, Retryable, c.Classify(fmt.Errorf("wrapped: %w", pgError(pgerrcode.DeadlockDetected))))
}

func TestPostgresErrorClassifier_Constraints(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.True(t, c.IsUniqueViolation(pgError(pgerrcode.UniqueViolation)))
	assert.False(t, c.IsUniqueViolation(pgError(pgerrcode.ForeignKeyViolation)))
	assert.True(t, c.IsForeignKeyViolation(fmt.Errorf("x: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})))
	assert.False(t, c.IsForeignKeyViolation(errors.New("plain")))
	assert.False(t, c.IsUniqueViolation(nil))
}

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	locked := sqlite3.Error{Code: sqlite3.ErrLocked}
	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	pk := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}
	fk := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}

	assert.Equal(t, Retryable, c.Classify(busy))
	assert.Equal(t, Retryable, c.Classify(fmt.Errorf("w: %w", locked)))
	assert.Equal(t, NonRetryable, c.Classify(unique))
	assert.Equal(t, NonRetryable, c.Classify(nil))

	assert.True(t, c.IsUniqueViolation(unique))
	assert.True(t, c.IsUniqueViolation(pk))
	assert.False(t, c.IsUniqueViolation(fk))
	assert.True(t, c.IsForeignKeyViolation(fk))
	assert.False(t, c.IsForeignKeyViolation(unique))
	assert.False(t, c.IsForeignKeyViolation(errors.New("plain")))
}

func TestErrorClassification_String(t *testing.T) {
	assert.Equal(t, "retryable", Retryable.String())
	assert.Equal(t, "non-retryable", NonRetryable.String())
}
