// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package shell

import (
	"errors"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
)

// All Msg* constants are the fixed user-facing texts printed by the shell.
// Errors are matched with errors.Is; their own text is never shown, except
// for the validators sentinels which are written for humans.
const (
	// MsgInvalidInput prefixes a validation failure.
	MsgInvalidInput = "Invalid input"

	// MsgUsernameTaken is printed when registration hits an existing username.
	MsgUsernameTaken = "Username already exists. Try a different one."

	// MsgInvalidLoginPassword is printed for every failed login and for a
	// wrong old password. It never tells which of the two was wrong.
	MsgInvalidLoginPassword = "Incorrect username or password."

	// MsgNotFound is printed when an operation targets nothing.
	MsgNotFound = "Nothing found."

	// MsgNoSecretForSite is printed when no secret is stored under a label.
	MsgNoSecretForSite = "No password found for this website."

	MsgNotLoggedIn      = "Please log in first."
	MsgAlreadyLoggedIn  = "You are already logged in."
	MsgUndecryptable    = "This stored password could not be decrypted."
	MsgStorageDown      = "The vault storage is unavailable. Try again later."
	MsgClipboardFailure = "Could not access the clipboard."

	// MsgUnexpected is printed for any other failure; the details go to the log.
	MsgUnexpected = "Something went wrong. See the log for details."
)

// validationErrors are safe to show verbatim.
var validationErrors = []error{
	validators.ErrEmptyUsername,
	validators.ErrUsernameTooLong,
	validators.ErrEmptyPassword,
	validators.ErrPasswordTooLong,
	validators.ErrEmptySiteLabel,
	validators.ErrSiteLabelTooLong,
	validators.ErrSecretNotUTF8,
}

// message maps err to its fixed user-facing text.
func message(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		for _, v := range validationErrors {
			if errors.Is(err, v) {
				return MsgInvalidInput + ": " + v.Error() + "."
			}
		}
		return MsgInvalidInput + "."
	case errors.Is(err, service.ErrUsernameTaken):
		return MsgUsernameTaken
	case errors.Is(err, service.ErrAuthFailed):
		return MsgInvalidLoginPassword
	case errors.Is(err, service.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, service.ErrNotAuthenticated):
		return MsgNotLoggedIn
	case errors.Is(err, service.ErrAlreadyAuthenticated):
		return MsgAlreadyLoggedIn
	case errors.Is(err, crypto.ErrInvalidCiphertext):
		return MsgUndecryptable
	case errors.Is(err, store.ErrStorageUnavailable):
		return MsgStorageDown
	default:
		return MsgUnexpected
	}
}

// expected reports whether err is an ordinary outcome rather than a fault
// worth logging at error level.
func expected(err error) bool {
	return message(err) != MsgUnexpected && !errors.Is(err, store.ErrStorageUnavailable)
}
