package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/models"
)

// credentialService implements CredentialService. It expects valid input;
// see credentialValidationService.
type credentialService struct {
	credentialRepository store.CredentialRepository
	cipher               crypto.SecretCipher
	logger               *logger.Logger
}

// NewCredentialService returns a CredentialService encrypting secrets with
// cipher before they reach credentialRepository.
func NewCredentialService(credentialRepository store.CredentialRepository, cipher crypto.SecretCipher, logger *logger.Logger) CredentialService {
	return &credentialService{
		credentialRepository: credentialRepository,
		cipher:               cipher,
		logger:               logger,
	}
}

// StoreSecret returns ErrNotFound if userID has no account.
func (c *credentialService) StoreSecret(ctx context.Context, userID int64, label, plaintext string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	blob, err := c.cipher.Encrypt(plaintext)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("secret encryption failed")
		return models.Credential{}, fmt.Errorf("secret encryption failed: %w", err)
	}

	credential, err := c.credentialRepository.AddCredential(ctx, userID, label, blob)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("secret saving failed")
		return models.Credential{}, fmt.Errorf("secret saving failed: %w", err)
	}

	log.Info().Object("credential", credential).Msg("secret stored")
	return credential, nil
}

func (c *credentialService) RetrieveSecrets(ctx context.Context, userID int64) ([]models.Secret, error) {
	credentials, err := c.credentialRepository.ListCredentials(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("listing secrets failed")
		return nil, fmt.Errorf("listing secrets failed: %w", err)
	}

	return c.decrypt(ctx, credentials), nil
}

func (c *credentialService) RetrieveSecret(ctx context.Context, userID int64, label string) ([]models.Secret, error) {
	credentials, err := c.credentialRepository.ListCredentialsByLabel(ctx, userID, label)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("listing secrets by label failed")
		return nil, fmt.Errorf("listing secrets by label failed: %w", err)
	}

	if len(credentials) == 0 {
		return nil, fmt.Errorf("%w: no secret stored for %q", ErrNotFound, label)
	}

	return c.decrypt(ctx, credentials), nil
}

func (c *credentialService) DeleteSecret(ctx context.Context, userID int64, label string) (int64, error) {
	log := logger.FromContext(ctx)

	removed, err := c.credentialRepository.DeleteCredential(ctx, userID, label)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("secret deletion failed")
		return 0, fmt.Errorf("secret deletion failed: %w", err)
	}

	if removed == 0 {
		return 0, fmt.Errorf("%w: no secret stored for %q", ErrNotFound, label)
	}

	log.Info().Int64("user_id", userID).Str("site_label", label).Int64("removed", removed).Msg("secrets deleted")
	return removed, nil
}

// decrypt never fails as a whole: every entry carries its own error.
func (c *credentialService) decrypt(ctx context.Context, credentials []models.Credential) []models.Secret {
	log := logger.FromContext(ctx)

	secrets := make([]models.Secret, 0, len(credentials))
	for _, credential := range credentials {
		secret := models.Secret{
			CredentialID: credential.CredentialID,
			SiteLabel:    credential.SiteLabel,
		}

		plaintext, err := c.cipher.Decrypt(credential.SecretBlob)
		if err != nil {
			log.Warn().Err(err).Object("credential", credential).Msg("secret could not be decrypted")
			secret.Err = fmt.Errorf("credential %d: %w", credential.CredentialID, err)
		} else {
			secret.Plaintext = plaintext
		}

		secrets = append(secrets, secret)
	}

	return secrets
}
