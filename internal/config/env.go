// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// legacyEnv holds variable names understood for compatibility with older
// deployments of the vault.
type legacyEnv struct {
	AESKey string `env:"AES_KEY"`
}

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [StructuredConfig] and its nested types.
//
// AES_KEY is used as the secret key when APP_SECRET_KEY is unset.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	if cfg.App.SecretKey == "" {
		legacy, err := env.ParseAs[legacyEnv]()
		if err != nil {
			return fmt.Errorf("error getting env configs: %w", err)
		}
		cfg.App.SecretKey = legacy.AESKey
	}

	return nil
}
