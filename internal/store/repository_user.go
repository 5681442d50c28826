package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

// userRepository is the SQL implementation of [UserRepository] for both
// dialects. It handles the "users" table and, on account deletion, the
// credentials owned by the account.
//
// All methods obtain a context-scoped logger via [logger.FromContext].
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with the store
// assigned UserID and CreatedAt.
//
// Error handling:
//   - unique violation on username → [ErrLoginAlreadyExists].
//   - any other driver-level error → [ErrStorageUnavailable].
func (r *userRepository) CreateUser(ctx context.Context, username, masterPasswordHash string) (models.User, error) {
	log := logger.FromContext(ctx)

	user := models.User{
		Username:           username,
		MasterPasswordHash: masterPasswordHash,
		CreatedAt:          time.Now().UTC(),
	}

	query, args, err := buildInsertUserQuery(r.db.builder(), user.Username, user.MasterPasswordHash, user.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.UserID); err != nil {
		if r.db.errorClassificator.IsUniqueViolation(err) {
			log.Debug().Str("func", "*userRepository.CreateUser").Str("username", username).Msg("username already taken")
			return models.User{}, ErrLoginAlreadyExists
		}

		log.Err(err).
			Str("func", "*userRepository.CreateUser").
			Bool("retryable", r.db.retryable(err)).
			Msg("error inserting user")
		return models.User{}, r.db.unavailable(ErrExecutingQuery, err)
	}

	log.Debug().Str("func", "*userRepository.CreateUser").Object("user", user).Msg("user created")
	return user, nil
}

// FindUserByUsername retrieves the user with the given username
// (case-sensitive). Absent users yield [ErrNoUserWasFound].
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByUsername", sq.Eq{"username": username})
}

// FindUserByID retrieves the user with the given id. Absent users yield
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", sq.Eq{"id": userID})
}

func (r *userRepository) findUser(ctx context.Context, funcName string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder(), where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.UserID, &user.Username, &user.MasterPasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).
			Str("func", funcName).
			Bool("retryable", r.db.retryable(err)).
			Msg("error selecting user")
		return models.User{}, r.db.unavailable(ErrScanningRow, err)
	}

	return user, nil
}

// UpdateMasterHash replaces the master password hash of the user. A user
// that does not exist yields [ErrNoUserWasFound].
func (r *userRepository) UpdateMasterHash(ctx context.Context, userID int64, masterPasswordHash string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateMasterHashQuery(r.db.builder(), userID, masterPasswordHash)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateMasterHash").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := execAffected(ctx, r.db.DB, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.UpdateMasterHash").
			Int64("user_id", userID).
			Bool("retryable", r.db.retryable(err)).
			Msg("error updating master password hash")
		return r.db.unavailable(ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrNoUserWasFound
	}

	log.Debug().Str("func", "*userRepository.UpdateMasterHash").Int64("user_id", userID).Msg("master password hash updated")
	return nil
}

// DeleteUser removes the user's credentials and then the user inside one
// transaction, so either both disappear or neither does. A user that does
// not exist yields [ErrNoUserWasFound] and nothing is deleted.
//
// Returns the number of credentials that were removed.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	credentialsQuery, credentialsArgs, err := buildDeleteUserCredentialsQuery(r.db.builder(), userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	userQuery, userArgs, err := buildDeleteUserQuery(r.db.builder(), userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var removed int64
	err = r.db.WithTx(ctx, func(tx DBTX) error {
		n, err := execAffected(ctx, tx, credentialsQuery, credentialsArgs...)
		if err != nil {
			log.Err(err).
				Str("func", "*userRepository.DeleteUser").
				Int64("user_id", userID).
				Msg("failed to delete credentials in transaction")
			return r.db.unavailable(ErrExecutingStatement, err)
		}

		users, err := execAffected(ctx, tx, userQuery, userArgs...)
		if err != nil {
			log.Err(err).
				Str("func", "*userRepository.DeleteUser").
				Int64("user_id", userID).
				Msg("failed to delete user in transaction")
			return r.db.unavailable(ErrExecutingStatement, err)
		}
		if users == 0 {
			return ErrNoUserWasFound
		}

		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("func", "*userRepository.DeleteUser").
		Int64("user_id", userID).
		Int64("credentials_removed", removed).
		Msg("user deleted")
	return removed, nil
}

// execAffected runs a DML statement and returns the number of affected rows.
func execAffected(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
