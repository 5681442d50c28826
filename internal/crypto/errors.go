package crypto

import "errors"

var (
	// ErrMissingKey is returned when no secret key was configured.
	ErrMissingKey = errors.New("secret key is not configured")

	// ErrInvalidKeySize is returned when the secret key is not exactly
	// 256 bits long.
	ErrInvalidKeySize = errors.New("secret key must be exactly 32 bytes")

	// ErrInvalidCiphertext is returned by [SecretCipher.Decrypt] for any blob
	// that fails decoding, length, integrity or padding checks.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash in
	// full (more than 72 bytes).
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// errInvalidPadding stays internal: callers only ever see ErrInvalidCiphertext.
var errInvalidPadding = errors.New("invalid padding")
