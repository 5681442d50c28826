// Package service orchestrates the password hasher, the secret cipher and
// the repositories into the account and secret lifecycles of the vault.
// Presentation layers talk to a [Session] and never to the lower packages.
package service

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

// AuthService defines the account lifecycle.
type AuthService interface {
	// Register creates an account for username. The master password is
	// hashed before it reaches the store. Returns [ErrValidation] for empty
	// or oversized input and [ErrUsernameTaken] for a duplicate username.
	Register(ctx context.Context, username, password string) (models.User, error)

	// Login returns the account matching username and password.
	// An unknown username and a wrong password both yield [ErrAuthFailed].
	Login(ctx context.Context, username, password string) (models.User, error)

	// ChangePassword replaces the master password of userID after
	// re-verifying oldPassword. A mismatch yields [ErrAuthFailed].
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// DeleteAccount removes the account together with all of its secrets.
	// Returns [ErrNotFound] if the account does not exist.
	DeleteAccount(ctx context.Context, userID int64) error
}

// CredentialService defines the secret lifecycle of one owner.
type CredentialService interface {
	// StoreSecret encrypts plaintext and stores it under label.
	StoreSecret(ctx context.Context, userID int64, label, plaintext string) (models.Credential, error)

	// RetrieveSecrets decrypts every secret of userID in insertion order.
	// A blob that fails to decrypt is reported in its own [models.Secret.Err]
	// and does not fail the listing.
	RetrieveSecrets(ctx context.Context, userID int64) ([]models.Secret, error)

	// RetrieveSecret is like RetrieveSecrets restricted to one label.
	// Returns [ErrNotFound] if nothing is stored under label.
	RetrieveSecret(ctx context.Context, userID int64, label string) ([]models.Secret, error)

	// DeleteSecret removes every secret of userID stored under label and
	// returns how many were removed, or [ErrNotFound] if none were.
	DeleteSecret(ctx context.Context, userID int64, label string) (int64, error)
}

// CredentialServiceWrapper defines middleware composition for
// CredentialService, e.g. input validation in front of the real service.
type CredentialServiceWrapper interface {
	Wrap(CredentialService) CredentialService
}
