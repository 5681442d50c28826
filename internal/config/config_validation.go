// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// startup invariants and fills in defaults for optional fields.
//
// Startup fails when the secret key is absent or not exactly 256 bits.
func (cfg *StructuredConfig) validate() error {
	if _, err := crypto.ParseKey(cfg.App.SecretKey); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	if cfg.App.BcryptCost != 0 && (cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("%w: bcrypt cost must be within [%d, %d]", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch cfg.Storage.DB.Driver {
	case "", DriverSQLite:
		cfg.Storage.DB.Driver = DriverSQLite
		if cfg.Storage.DB.DSN == "" {
			cfg.Storage.DB.DSN = DefaultSQLiteDSN
		}
	case DriverPostgres:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: postgres requires a DSN", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile
	}

	return nil
}

// Key parses the validated secret key.
func (a App) Key() (crypto.Key, error) {
	return crypto.ParseKey(a.SecretKey)
}
