package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-vault/models"
)

var (
	usersTable       = models.User{}.TableName()
	credentialsTable = models.Credential{}.TableName()
)

var (
	userColumns       = []string{"id", "username", "master_password_hash", "created_at"}
	credentialColumns = []string{"id", "owner_id", "site_label", "secret_blob", "created_at"}
)

func buildInsertUserQuery(b sq.StatementBuilderType, username, hash string, createdAt time.Time) (string, []any, error) {
	return b.Insert(usersTable).
		Columns("username", "master_password_hash", "created_at").
		Values(username, hash, createdAt).
		Suffix("RETURNING id").
		ToSql()
}

// buildSelectUserQuery selects a single user by an equality filter on
// id or username.
func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(where).
		ToSql()
}

func buildUpdateMasterHashQuery(b sq.StatementBuilderType, userID int64, hash string) (string, []any, error) {
	return b.Update(usersTable).
		Set("master_password_hash", hash).
		Where(sq.Eq{"id": userID}).
		ToSql()
}

func buildDeleteUserCredentialsQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Delete(credentialsTable).
		Where(sq.Eq{"owner_id": userID}).
		ToSql()
}

func buildDeleteUserQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Delete(usersTable).
		Where(sq.Eq{"id": userID}).
		ToSql()
}

func buildInsertCredentialQuery(b sq.StatementBuilderType, userID int64, label, blob string, createdAt time.Time) (string, []any, error) {
	return b.Insert(credentialsTable).
		Columns("owner_id", "site_label", "secret_blob", "created_at").
		Values(userID, label, blob, createdAt).
		Suffix("RETURNING id").
		ToSql()
}

// buildSelectCredentialsQuery lists credentials in insertion order. where
// always filters by owner_id and optionally by site_label.
func buildSelectCredentialsQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(credentialColumns...).
		From(credentialsTable).
		Where(where).
		OrderBy("id ASC").
		ToSql()
}

func buildDeleteCredentialQuery(b sq.StatementBuilderType, userID int64, label string) (string, []any, error) {
	return b.Delete(credentialsTable).
		Where(sq.Eq{"owner_id": userID, "site_label": label}).
		ToSql()
}
