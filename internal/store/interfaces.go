package store

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists vault accounts in the "users" table.
type UserRepository interface {
	// CreateUser inserts a new account. A duplicate username yields
	// [ErrLoginAlreadyExists].
	CreateUser(ctx context.Context, username, masterPasswordHash string) (models.User, error)
	// FindUserByUsername yields [ErrNoUserWasFound] when absent.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	// FindUserByID yields [ErrNoUserWasFound] when absent.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	// UpdateMasterHash replaces the stored hash; [ErrNoUserWasFound] when
	// no row matched.
	UpdateMasterHash(ctx context.Context, userID int64, masterPasswordHash string) error
	// DeleteUser removes the account together with every owned credential in
	// one transaction and returns how many credentials went with it.
	DeleteUser(ctx context.Context, userID int64) (int64, error)
}

// CredentialRepository persists encrypted per-site secrets in the
// "credentials" table. It never sees plaintexts.
type CredentialRepository interface {
	// AddCredential stores blob under label. An unknown owner yields
	// [ErrNoUserWasFound].
	AddCredential(ctx context.Context, userID int64, label, blob string) (models.Credential, error)
	// ListCredentials returns every credential of the user in insertion order.
	ListCredentials(ctx context.Context, userID int64) ([]models.Credential, error)
	// ListCredentialsByLabel returns the user's credentials stored under
	// label in insertion order.
	ListCredentialsByLabel(ctx context.Context, userID int64, label string) ([]models.Credential, error)
	// DeleteCredential removes every credential of the user stored under
	// label and returns the number removed.
	DeleteCredential(ctx context.Context, userID int64, label string) (int64, error)
}
