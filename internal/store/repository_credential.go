package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

// credentialRepository is the SQL implementation of [CredentialRepository].
// Blobs pass through untouched; the repository never decrypts.
type credentialRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided database connection and logger.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("creating credential repository")
	return &credentialRepository{
		db:     db,
		logger: logger,
	}
}

// AddCredential stores a new credential and returns it with the store
// assigned CredentialID and CreatedAt. A foreign key violation means the
// owner does not exist and yields [ErrNoUserWasFound].
func (r *credentialRepository) AddCredential(ctx context.Context, userID int64, label, blob string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	credential := models.Credential{
		OwnerID:    userID,
		SiteLabel:  label,
		SecretBlob: blob,
		CreatedAt:  time.Now().UTC(),
	}

	query, args, err := buildInsertCredentialQuery(r.db.builder(), userID, label, blob, credential.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.AddCredential").Msg("error building query")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&credential.CredentialID); err != nil {
		if r.db.errorClassificator.IsForeignKeyViolation(err) {
			log.Warn().Str("func", "*credentialRepository.AddCredential").Int64("user_id", userID).Msg("owner does not exist")
			return models.Credential{}, ErrNoUserWasFound
		}

		log.Err(err).
			Str("func", "*credentialRepository.AddCredential").
			Int64("user_id", userID).
			Bool("retryable", r.db.retryable(err)).
			Msg("error inserting credential")
		return models.Credential{}, r.db.unavailable(ErrExecutingQuery, err)
	}

	log.Debug().Str("func", "*credentialRepository.AddCredential").Object("credential", credential).Msg("credential stored")
	return credential, nil
}

// ListCredentials returns all credentials of the user ordered by id.
// A user without credentials, or one that does not exist, yields an empty
// slice.
func (r *credentialRepository) ListCredentials(ctx context.Context, userID int64) ([]models.Credential, error) {
	return r.list(ctx, "*credentialRepository.ListCredentials", sq.Eq{"owner_id": userID})
}

// ListCredentialsByLabel is like ListCredentials restricted to one label.
func (r *credentialRepository) ListCredentialsByLabel(ctx context.Context, userID int64, label string) ([]models.Credential, error) {
	return r.list(ctx, "*credentialRepository.ListCredentialsByLabel", sq.Eq{"owner_id": userID, "site_label": label})
}

func (r *credentialRepository) list(ctx context.Context, funcName string, where sq.Eq) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectCredentialsQuery(r.db.builder(), where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Bool("retryable", r.db.retryable(err)).
			Msg("error selecting credentials")
		return nil, r.db.unavailable(ErrExecutingQuery, err)
	}
	defer rows.Close()

	credentials := make([]models.Credential, 0)
	for rows.Next() {
		var c models.Credential
		if err = rows.Scan(&c.CredentialID, &c.OwnerID, &c.SiteLabel, &c.SecretBlob, &c.CreatedAt); err != nil {
			log.Err(err).Str("func", funcName).Msg("error scanning credential row")
			return nil, r.db.unavailable(ErrScanningRows, err)
		}
		credentials = append(credentials, c)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error iterating credential rows")
		return nil, r.db.unavailable(ErrScanningRows, err)
	}

	log.Debug().Str("func", funcName).Int("count", len(credentials)).Msg("credentials listed")
	return credentials, nil
}

// DeleteCredential removes every credential of the user stored under label
// and returns how many were removed; zero is not an error here.
func (r *credentialRepository) DeleteCredential(ctx context.Context, userID int64, label string) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteCredentialQuery(r.db.builder(), userID, label)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.DeleteCredential").Msg("error building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	removed, err := execAffected(ctx, r.db.DB, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*credentialRepository.DeleteCredential").
			Int64("user_id", userID).
			Bool("retryable", r.db.retryable(err)).
			Msg("error deleting credentials")
		return 0, r.db.unavailable(ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "*credentialRepository.DeleteCredential").
		Int64("user_id", userID).
		Int64("removed", removed).
		Msg("credentials deleted")
	return removed, nil
}
