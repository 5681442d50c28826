package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Field name constants used to restrict validation to a subset of rules.
const (
	// FieldUsername targets the login of an account.
	FieldUsername = "username"

	// FieldPassword targets the master password of an account.
	FieldPassword = "password"

	// FieldUserID targets the owner identifier of an operation.
	FieldUserID = "user_id"

	// FieldSiteLabel targets the label a secret is stored under.
	FieldSiteLabel = "site_label"

	// FieldPlaintext targets the secret value itself.
	FieldPlaintext = "plaintext"
)

const (
	// MaxUsernameLength is measured in characters.
	MaxUsernameLength = 255
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
	// MaxSiteLabelLength is measured in characters.
	MaxSiteLabelLength = 255
)

// VaultValidator validates accounts, secrets and owner ids.
type VaultValidator struct {
}

func NewVaultValidator() Validator {
	return &VaultValidator{}
}

// Validate dispatches on the type of obj:
//   - models.Account: FieldUsername, FieldPassword
//   - models.Secret: FieldSiteLabel, FieldPlaintext
//   - int64: FieldUserID
//
// Without fields every rule of the type runs.
func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Account:
		return v.validateAccount(ctx, value, fields...)
	case *models.Account:
		return v.validateAccount(ctx, *value, fields...)

	case models.Secret:
		return v.validateSecret(ctx, value, fields...)
	case *models.Secret:
		return v.validateSecret(ctx, *value, fields...)

	case int64:
		return v.validateUserID(value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *VaultValidator) validateAccount(_ context.Context, account models.Account, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if isBlank(account.Username) {
				return ErrEmptyUsername
			}
			if utf8.RuneCountInString(account.Username) > MaxUsernameLength {
				return ErrUsernameTooLong
			}
		case FieldPassword:
			if account.Password == "" {
				return ErrEmptyPassword
			}
			if len(account.Password) > MaxPasswordBytes {
				return ErrPasswordTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateSecret(_ context.Context, secret models.Secret, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSiteLabel, FieldPlaintext}
	}

	for _, f := range fields {
		switch f {
		case FieldSiteLabel:
			if isBlank(secret.SiteLabel) {
				return ErrEmptySiteLabel
			}
			if utf8.RuneCountInString(secret.SiteLabel) > MaxSiteLabelLength {
				return ErrSiteLabelTooLong
			}
		case FieldPlaintext:
			if !utf8.ValidString(secret.Plaintext) {
				return ErrSecretNotUTF8
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *VaultValidator) validateUserID(userID int64, fields ...string) error {
	for _, f := range fields {
		if f != FieldUserID {
			return ErrUnknownField
		}
	}

	if userID <= 0 {
		return ErrInvalidUserID
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
