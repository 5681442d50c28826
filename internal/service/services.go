package service

import (
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
)

type Services struct {
	AuthService       AuthService
	CredentialService CredentialService
}

// NewServices builds the cryptographic primitives from cfg and wires them
// to the repositories. It fails when the secret key is absent or not
// exactly 256 bits.
func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	key, err := cfg.Key()
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}

	cipher, err := crypto.NewSecretCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secret cipher init failed: %w", err)
	}

	hasher := crypto.NewPasswordHasher(cfg.BcryptCost)

	credentialService := NewCredentialValidationService().
		Wrap(NewCredentialService(storages.CredentialRepository, cipher, logger))

	return &Services{
		AuthService:       NewAuthService(storages.UserRepository, hasher, logger),
		CredentialService: credentialService,
	}, nil
}
