package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

// Session is the per-user state machine of the vault:
//
//	Anonymous -> Authenticated(userID) -> Anonymous
//
// Login enters the authenticated state; Logout and a successful
// DeleteAccount leave it. Secret operations and password changes require
// an authenticated session and return [ErrNotAuthenticated] otherwise.
//
// Every operation runs with a context logger carrying the session id and,
// once authenticated, the user id. A Session is safe for concurrent use.
type Session struct {
	auth        AuthService
	credentials CredentialService
	ids         utils.IDGenerator
	logger      *logger.Logger

	mu   sync.RWMutex
	id   string
	user *models.User
}

// NewSession starts an anonymous session over services.
func NewSession(services *Services, ids utils.IDGenerator, logger *logger.Logger) *Session {
	return &Session{
		auth:        services.AuthService,
		credentials: services.CredentialService,
		ids:         ids,
		logger:      logger,
		id:          ids.Generate(),
	}
}

// ID returns the current session id. A new id is issued on every login.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.id
}

// User returns the authenticated user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.User{}, false
	}

	return *s.user, true
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Register creates an account without logging in, as a separate step.
func (s *Session) Register(ctx context.Context, username, password string) (models.User, error) {
	if s.Authenticated() {
		return models.User{}, ErrAlreadyAuthenticated
	}

	return s.auth.Register(s.context(ctx), username, password)
}

func (s *Session) Login(ctx context.Context, username, password string) (models.User, error) {
	if s.Authenticated() {
		return models.User{}, ErrAlreadyAuthenticated
	}

	user, err := s.auth.Login(s.context(ctx), username, password)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	if s.user != nil {
		s.mu.Unlock()
		return models.User{}, ErrAlreadyAuthenticated
	}
	s.id = s.ids.Generate()
	s.user = &user
	s.mu.Unlock()

	logger.FromContext(s.context(ctx)).Info().Msg("session authenticated")
	return user, nil
}

// Logout returns the session to the anonymous state. It is a no-op for an
// anonymous session.
func (s *Session) Logout(ctx context.Context) {
	if !s.Authenticated() {
		return
	}

	logger.FromContext(s.context(ctx)).Info().Msg("session closed")
	s.reset()
}

func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	user, ok := s.User()
	if !ok {
		return ErrNotAuthenticated
	}

	return s.auth.ChangePassword(s.context(ctx), user.UserID, oldPassword, newPassword)
}

// DeleteAccount removes the logged in account and all of its secrets, then
// returns the session to the anonymous state. The session is also reset
// when the account turns out to be gone already.
func (s *Session) DeleteAccount(ctx context.Context) error {
	user, ok := s.User()
	if !ok {
		return ErrNotAuthenticated
	}

	err := s.auth.DeleteAccount(s.context(ctx), user.UserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	s.reset()
	return err
}

func (s *Session) StoreSecret(ctx context.Context, label, plaintext string) (models.Credential, error) {
	user, ok := s.User()
	if !ok {
		return models.Credential{}, ErrNotAuthenticated
	}

	return s.credentials.StoreSecret(s.context(ctx), user.UserID, label, plaintext)
}

func (s *Session) RetrieveSecrets(ctx context.Context) ([]models.Secret, error) {
	user, ok := s.User()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	return s.credentials.RetrieveSecrets(s.context(ctx), user.UserID)
}

func (s *Session) RetrieveSecret(ctx context.Context, label string) ([]models.Secret, error) {
	user, ok := s.User()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	return s.credentials.RetrieveSecret(s.context(ctx), user.UserID, label)
}

func (s *Session) DeleteSecret(ctx context.Context, label string) (int64, error) {
	user, ok := s.User()
	if !ok {
		return 0, ErrNotAuthenticated
	}

	return s.credentials.DeleteSecret(s.context(ctx), user.UserID, label)
}

func (s *Session) reset() {
	s.mu.Lock()
	s.user = nil
	s.id = s.ids.Generate()
	s.mu.Unlock()
}

// context attaches the session scoped logger to ctx. An authenticated
// session also binds its user id, which the credential services check
// against the requested owner.
func (s *Session) context(ctx context.Context) context.Context {
	s.mu.RLock()
	id, user := s.id, s.user
	s.mu.RUnlock()

	child := s.logger.GetChildLogger()
	fields := child.With().Str("session_id", id)
	if user != nil {
		fields = fields.Int64("user_id", user.UserID)
		ctx = utils.WithUserID(ctx, user.UserID)
	}
	child.Logger = fields.Logger()

	return child.WithContext(ctx)
}
