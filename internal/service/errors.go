package service

import "errors"

var (
	// ErrValidation wraps every input rejected by the validators package.
	ErrValidation = errors.New("invalid data provided")

	// ErrUsernameTaken is returned by registration for an existing username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrNotFound is returned for an unknown user, or when no credential
	// matches the requested site label.
	ErrNotFound = errors.New("not found")

	// ErrAuthFailed is returned for both an unknown username and a wrong
	// password, so callers cannot tell the two apart.
	ErrAuthFailed = errors.New("invalid username or password")
)

var (
	ErrNotAuthenticated     = errors.New("session is not authenticated")
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")
)
