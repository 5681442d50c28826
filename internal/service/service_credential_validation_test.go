package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// ─────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────

type mockInnerService struct {
	storeFn       func(ctx context.Context, userID int64, label, plaintext string) (models.Credential, error)
	retrieveAllFn func(ctx context.Context, userID int64) ([]models.Secret, error)
	retrieveFn    func(ctx context.Context, userID int64, label string) ([]models.Secret, error)
	deleteFn      func(ctx context.Context, userID int64, label string) (int64, error)
}

func (m *mockInnerService) StoreSecret(ctx context.Context, userID int64, label, plaintext string) (models.Credential, error) {
	if m.storeFn != nil {
		return m.storeFn(ctx, userID, label, plaintext)
	}
	return models.Credential{}, nil
}
func (m *mockInnerService) RetrieveSecrets(ctx context.Context, userID int64) ([]models.Secret, error) {
	if m.retrieveAllFn != nil {
		return m.retrieveAllFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockInnerService) RetrieveSecret(ctx context.Context, userID int64, label string) ([]models.Secret, error) {
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, userID, label)
	}
	return nil, nil
}
func (m *mockInnerService) DeleteSecret(ctx context.Context, userID int64, label string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, label)
	}
	return 0, nil
}

type mockValidator struct {
	validateFn func(ctx context.Context, i any, fields ...string) error
}

func (m *mockValidator) Validate(ctx context.Context, i any, fields ...string) error {
	if m.validateFn != nil {
		return m.validateFn(ctx, i, fields...)
	}
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// failingInner fails the test if any call gets through the wrapper.
func failingInner(t *testing.T) *mockInnerService {
	fail := func() { t.Fatal("inner service must not be called") }
	return &mockInnerService{
		storeFn: func(context.Context, int64, string, string) (models.Credential, error) {
			fail()
			return models.Credential{}, nil
		},
		retrieveAllFn: func(context.Context, int64) ([]models.Secret, error) { fail(); return nil, nil },
		retrieveFn:    func(context.Context, int64, string) ([]models.Secret, error) { fail(); return nil, nil },
		deleteFn:      func(context.Context, int64, string) (int64, error) { fail(); return 0, nil },
	}
}

func newValidationService(inner CredentialService) CredentialService {
	return NewCredentialValidationService().Wrap(inner)
}

// ─────────────────────────────────────────────
// StoreSecret
// ─────────────────────────────────────────────

func TestValidation_StoreSecret_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		userID    int64
		label     string
		plaintext string
		wantErr   error
	}{
		{name: "zero user", userID: 0, label: "a", plaintext: "b", wantErr: validators.ErrInvalidUserID},
		{name: "empty label", userID: 1, label: "", plaintext: "b", wantErr: validators.ErrEmptySiteLabel},
		{name: "blank label", userID: 1, label: "   ", plaintext: "b", wantErr: validators.ErrEmptySiteLabel},
		{name: "long label", userID: 1, label: strings.Repeat("l", 256), plaintext: "b", wantErr: validators.ErrSiteLabelTooLong},
		{name: "binary secret", userID: 1, label: "a", plaintext: "\xc3\x28", wantErr: validators.ErrSecretNotUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newValidationService(failingInner(t))

			_, err := svc.StoreSecret(context.Background(), tt.userID, tt.label, tt.plaintext)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidation_StoreSecret_Success(t *testing.T) {
	called := false
	inner := &mockInnerService{
		storeFn: func(_ context.Context, userID int64, label, plaintext string) (models.Credential, error) {
			called = true
			assert.Equal(t, int64(1), userID)
			assert.Equal(t, "example.com", label)
			assert.Equal(t, "p@ss1", plaintext)
			return models.Credential{CredentialID: 3}, nil
		},
	}

	credential, err := newValidationService(inner).StoreSecret(context.Background(), 1, "example.com", "p@ss1")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, int64(3), credential.CredentialID)
}

func TestValidation_StoreSecret_ValidatorError(t *testing.T) {
	errBoom := errors.New("validation failed")
	svc := &credentialValidationService{
		inner: failingInner(t),
		validator: &mockValidator{
			validateFn: func(context.Context, any, ...string) error { return errBoom },
		},
	}

	_, err := svc.StoreSecret(context.Background(), 1, "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, ErrValidation)
}

// ─────────────────────────────────────────────
// RetrieveSecrets / RetrieveSecret / DeleteSecret
// ─────────────────────────────────────────────

func TestValidation_RetrieveSecrets_InvalidUserID(t *testing.T) {
	_, err := newValidationService(failingInner(t)).RetrieveSecrets(context.Background(), -3)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidation_RetrieveSecrets_Delegates(t *testing.T) {
	want := []models.Secret{{SiteLabel: "a", Plaintext: "b"}}
	inner := &mockInnerService{
		retrieveAllFn: func(context.Context, int64) ([]models.Secret, error) { return want, nil },
	}

	got, err := newValidationService(inner).RetrieveSecrets(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidation_RetrieveSecret_EmptyLabel(t *testing.T) {
	_, err := newValidationService(failingInner(t)).RetrieveSecret(context.Background(), 1, "")
	assert.ErrorIs(t, err, validators.ErrEmptySiteLabel)
}

func TestValidation_DeleteSecret(t *testing.T) {
	svc := newValidationService(failingInner(t))

	_, err := svc.DeleteSecret(context.Background(), 0, "a")
	assert.ErrorIs(t, err, validators.ErrInvalidUserID)

	_, err = svc.DeleteSecret(context.Background(), 1, " ")
	assert.ErrorIs(t, err, validators.ErrEmptySiteLabel)

	inner := &mockInnerService{
		deleteFn: func(context.Context, int64, string) (int64, error) { return 2, nil },
	}
	removed, err := newValidationService(inner).DeleteSecret(context.Background(), 1, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestValidation_SessionUserMustOwnSecrets(t *testing.T) {
	ctx := utils.WithUserID(context.Background(), 2)
	svc := newValidationService(failingInner(t))

	_, err := svc.StoreSecret(ctx, 1, "a", "b")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.RetrieveSecrets(ctx, 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.RetrieveSecret(ctx, 1, "a")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.DeleteSecret(ctx, 1, "a")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestValidation_SessionUserReachesOwnSecrets(t *testing.T) {
	ctx := utils.WithUserID(context.Background(), 2)
	inner := &mockInnerService{
		retrieveAllFn: func(_ context.Context, userID int64) ([]models.Secret, error) {
			return []models.Secret{{CredentialID: userID}}, nil
		},
	}

	got, err := newValidationService(inner).RetrieveSecrets(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.Secret{{CredentialID: 2}}, got)
}
