package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrEmptyUsername    = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username is too long")
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
	ErrEmptySiteLabel   = errors.New("site label is required")
	ErrSiteLabelTooLong = errors.New("site label is too long")
	ErrSecretNotUTF8    = errors.New("secret must be valid UTF-8 text")
)
