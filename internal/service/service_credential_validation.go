package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// credentialValidationService rejects invalid input before it reaches the
// wrapped CredentialService. Input rejections wrap ErrValidation. A context
// bound to a session user may only reach that user's secrets; any other
// owner is rejected with ErrNotAuthenticated.
type credentialValidationService struct {
	inner     CredentialService
	validator validators.Validator
}

func NewCredentialValidationService() CredentialServiceWrapper {
	return &credentialValidationService{
		validator: validators.NewVaultValidator(),
	}
}

func (v *credentialValidationService) StoreSecret(ctx context.Context, userID int64, label, plaintext string) (models.Credential, error) {
	if err := v.validateOwner(ctx, userID); err != nil {
		return models.Credential{}, err
	}

	secret := models.Secret{SiteLabel: label, Plaintext: plaintext}
	if err := v.validator.Validate(ctx, secret); err != nil {
		return models.Credential{}, fmt.Errorf("%w: error during secret validation before saving: %w", ErrValidation, err)
	}

	return v.inner.StoreSecret(ctx, userID, label, plaintext)
}

func (v *credentialValidationService) RetrieveSecrets(ctx context.Context, userID int64) ([]models.Secret, error) {
	if err := v.validateOwner(ctx, userID); err != nil {
		return nil, err
	}

	return v.inner.RetrieveSecrets(ctx, userID)
}

func (v *credentialValidationService) RetrieveSecret(ctx context.Context, userID int64, label string) ([]models.Secret, error) {
	if err := v.validateOwner(ctx, userID); err != nil {
		return nil, err
	}
	if err := v.validateLabel(ctx, label); err != nil {
		return nil, err
	}

	return v.inner.RetrieveSecret(ctx, userID, label)
}

func (v *credentialValidationService) DeleteSecret(ctx context.Context, userID int64, label string) (int64, error) {
	if err := v.validateOwner(ctx, userID); err != nil {
		return 0, err
	}
	if err := v.validateLabel(ctx, label); err != nil {
		return 0, err
	}

	return v.inner.DeleteSecret(ctx, userID, label)
}

func (v *credentialValidationService) Wrap(inner CredentialService) CredentialService {
	v.inner = inner
	return v
}

func (v *credentialValidationService) validateOwner(ctx context.Context, userID int64) error {
	if err := v.validator.Validate(ctx, userID, validators.FieldUserID); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if sessionUserID, ok := utils.GetUserIDFromContext(ctx); ok && sessionUserID != userID {
		return fmt.Errorf("%w: session user %d cannot access secrets of user %d", ErrNotAuthenticated, sessionUserID, userID)
	}

	return nil
}

func (v *credentialValidationService) validateLabel(ctx context.Context, label string) error {
	if err := v.validator.Validate(ctx, models.Secret{SiteLabel: label}, validators.FieldSiteLabel); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}
