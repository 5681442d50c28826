// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
)

// KeySize is the length of the secret key in bytes (AES-256).
const KeySize = 32

const redacted = "[REDACTED]"

// Key is the immutable 256-bit secret key of the vault.
//
// The key bytes are unexported and only readable inside this package; the
// value prints as a redacted placeholder so it never leaks through logs.
type Key struct {
	b   [KeySize]byte
	set bool
}

// NewKey copies raw into a [Key]. raw must be exactly [KeySize] bytes long.
func NewKey(raw []byte) (Key, error) {
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(raw))
	}

	var k Key
	copy(k.b[:], raw)
	k.set = true
	return k, nil
}

// ParseKey builds a [Key] from its configuration form: either 64 hex digits
// or a raw 32-byte string.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrMissingKey
	}

	if len(s) == 2*KeySize {
		if raw, err := hex.DecodeString(s); err == nil {
			return NewKey(raw)
		}
	}

	return NewKey([]byte(s))
}

// IsZero reports whether k was never initialized.
func (k Key) IsZero() bool {
	return !k.set
}

// String implements [fmt.Stringer] without revealing the key.
func (k Key) String() string {
	return redacted
}

// GoString implements [fmt.GoStringer] without revealing the key.
func (k Key) GoString() string {
	return redacted
}

// MarshalText keeps the key out of JSON and text encoders.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// MarshalZerologObject logs only whether the key is set.
func (k Key) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("set", k.set).Str("value", redacted)
}
