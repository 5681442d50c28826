package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// dummyPassword is hashed once to give Login something to compare against
// when the username is unknown.
const dummyPassword = "go-pass-vault: no such user"

// fallbackDummyHash is a well-formed bcrypt record at the default cost. It
// replaces the dummy hash when dummyPassword cannot be hashed.
const fallbackDummyHash = "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"

// authService is the concrete implementation of AuthService.
// It hashes and verifies master passwords with a PasswordHasher and keeps
// accounts in a UserRepository.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// hasher produces and verifies master password records.
	hasher crypto.PasswordHasher

	// validator checks account input before any hashing happens.
	validator validators.Validator

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger

	// dummyHash is verified against on logins of unknown users.
	dummyHash string
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and PasswordHasher.
//
// The returned service is safe for concurrent use.
func NewAuthService(userRepository store.UserRepository, hasher crypto.PasswordHasher, logger *logger.Logger) AuthService {
	a := &authService{
		userRepository: userRepository,
		hasher:         hasher,
		validator:      validators.NewVaultValidator(),
		logger:         logger,
	}
	a.dummyHash = a.newDummyHash()

	return a
}

// Register creates a new user account.
//
// Returns the persisted user (with a store-assigned UserID) or:
//   - ErrValidation if the username is blank or the password is empty or
//     longer than 72 bytes.
//   - ErrUsernameTaken if the username is already registered.
//   - A wrapped storage error otherwise (see store.ErrStorageUnavailable).
func (a *authService) Register(ctx context.Context, username, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	account := models.Account{Username: username, Password: password}
	if err := a.validator.Validate(ctx, account); err != nil {
		log.Debug().Err(err).Msg("invalid registration data provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := a.hashPassword(password)
	if err != nil {
		log.Err(err).Msg("master password hashing failed")
		return models.User{}, err
	}

	user, err := a.userRepository.CreateUser(ctx, username, hash)
	if errors.Is(err, store.ErrLoginAlreadyExists) {
		log.Info().Str("username", username).Msg("username is already taken")
		return models.User{}, fmt.Errorf("%w: %w", ErrUsernameTaken, err)
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Object("user", user).Msg("user registered")
	return user, nil
}

// Login authenticates an existing user.
//
// When the username is unknown a dummy record is still verified, so both
// failure paths cost one bcrypt comparison and return ErrAuthFailed.
// A record hashed with an outdated cost is transparently re-hashed; a
// failure to do so is logged and does not fail the login.
func (a *authService) Login(ctx context.Context, username, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	account := models.Account{Username: username, Password: password}
	if err := a.validator.Validate(ctx, account); err != nil {
		log.Debug().Err(err).Msg("invalid login data provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		a.hasher.Verify(password, a.dummyHash)
		log.Info().Msg("login failed")
		return models.User{}, ErrAuthFailed
	}
	if err != nil {
		log.Err(err).Msg("user search by username failed")
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if !a.hasher.Verify(password, user.MasterPasswordHash) {
		log.Info().Msg("login failed")
		return models.User{}, ErrAuthFailed
	}

	if a.hasher.NeedsRehash(user.MasterPasswordHash) {
		a.rehash(ctx, &user, password)
	}

	log.Info().Object("user", user).Msg("user logged in")
	return user, nil
}

// ChangePassword re-verifies oldPassword against the stored record before
// replacing it with a hash of newPassword.
//
// Returns:
//   - ErrValidation for an invalid user id or an unacceptable new password.
//   - ErrNotFound if the user does not exist.
//   - ErrAuthFailed if oldPassword does not match.
func (a *authService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx).With().Int64("user_id", userID).Logger()

	if err := a.validator.Validate(ctx, userID, validators.FieldUserID); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := a.validator.Validate(ctx, models.Account{Password: newPassword}, validators.FieldPassword); err != nil {
		log.Debug().Err(err).Msg("invalid new master password")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		log.Err(err).Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	if !a.hasher.Verify(oldPassword, user.MasterPasswordHash) {
		log.Info().Msg("old master password did not match")
		return ErrAuthFailed
	}

	hash, err := a.hashPassword(newPassword)
	if err != nil {
		log.Err(err).Msg("master password hashing failed")
		return err
	}

	err = a.userRepository.UpdateMasterHash(ctx, userID, hash)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		log.Err(err).Msg("master password update failed")
		return fmt.Errorf("master password update failed: %w", err)
	}

	log.Info().Msg("master password changed")
	return nil
}

// DeleteAccount removes the user and all owned credentials in one
// transaction.
func (a *authService) DeleteAccount(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx).With().Int64("user_id", userID).Logger()

	if err := a.validator.Validate(ctx, userID, validators.FieldUserID); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	removed, err := a.userRepository.DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		log.Err(err).Msg("account deletion failed")
		return fmt.Errorf("account deletion failed: %w", err)
	}

	log.Info().Int64("credentials_removed", removed).Msg("account deleted")
	return nil
}

// hashPassword reports hasher input errors as validation errors.
func (a *authService) hashPassword(password string) (string, error) {
	hash, err := a.hasher.Hash(password)
	if errors.Is(err, crypto.ErrEmptyPassword) || errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		return "", fmt.Errorf("master password hashing failed: %w", err)
	}

	return hash, nil
}

func (a *authService) rehash(ctx context.Context, user *models.User, password string) {
	log := logger.FromContext(ctx)

	hash, err := a.hasher.Hash(password)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", user.UserID).Msg("master password rehash failed")
		return
	}

	if err = a.userRepository.UpdateMasterHash(ctx, user.UserID, hash); err != nil {
		log.Warn().Err(err).Int64("user_id", user.UserID).Msg("master password rehash was not saved")
		return
	}

	user.MasterPasswordHash = hash
	log.Debug().Int64("user_id", user.UserID).Msg("master password rehashed")
}

func (a *authService) newDummyHash() string {
	hash, err := a.hasher.Hash(dummyPassword)
	if err != nil {
		a.logger.Warn().Err(err).Msg("dummy password hashing failed, using the built-in record")
		return fallbackDummyHash
	}

	return hash
}
