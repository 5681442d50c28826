// Package shell is the line-oriented command interface of the vault.
//
// It renders menus, reads input and prints fixed messages for every outcome.
// All work is delegated to a [Vault], normally a *service.Session; the shell
// never touches the cipher or the store.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

// Vault is the session surface the shell drives.
type Vault interface {
	Authenticated() bool
	User() (models.User, bool)

	Register(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.User, error)
	Logout(ctx context.Context)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context) error

	StoreSecret(ctx context.Context, label, plaintext string) (models.Credential, error)
	RetrieveSecrets(ctx context.Context) ([]models.Secret, error)
	RetrieveSecret(ctx context.Context, label string) ([]models.Secret, error)
	DeleteSecret(ctx context.Context, label string) (int64, error)
}

// errExit ends Run normally.
var errExit = errors.New("exit")

const (
	anonymousMenu = `
Go Pass Vault
1. Register
2. Login
3. Exit`

	authenticatedMenu = `
Password Manager Menu (%s)
1. Store a new password
2. Retrieve a stored password
3. List stored websites
4. Copy a stored password to clipboard
5. Delete a stored password
6. Change master password
7. Delete your account
8. Logout`
)

type Shell struct {
	vault  Vault
	in     *bufio.Reader
	out    io.Writer
	logger *logger.Logger

	// fd is the input terminal descriptor, or -1 when input is not a terminal.
	fd    int
	state *term.State

	copy func(text string) error
}

// NewShell returns a shell reading commands from in and writing to out.
// Passwords are read without echo when in is a terminal.
func NewShell(vault Vault, in io.Reader, out io.Writer, log *logger.Logger) *Shell {
	s := &Shell{
		vault:  vault,
		in:     bufio.NewReader(in),
		out:    out,
		logger: log,
		fd:     terminalFD(in),
		copy:   clipboard.WriteAll,
	}

	if s.fd >= 0 {
		s.state, _ = term.GetState(s.fd)
	}

	return s
}

// Close restores the terminal to the state it had when the shell was
// created, in case the process is interrupted during a password prompt.
func (s *Shell) Close() error {
	if s.state == nil {
		return nil
	}

	return term.Restore(s.fd, s.state)
}

// Run serves menus until the user exits, input ends or ctx is cancelled.
// Only input failures are returned; vault errors are printed and the loop
// goes on.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		if s.vault.Authenticated() {
			err = s.authenticated(ctx)
		} else {
			err = s.anonymous(ctx)
		}

		switch {
		case err == nil:
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			s.println("Exiting...")
			return nil
		default:
			return err
		}
	}
}

func (s *Shell) anonymous(ctx context.Context) error {
	s.println(anonymousMenu)
	choice, err := s.readLine("Choose (1/2/3): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return s.register(ctx)
	case "2":
		return s.login(ctx)
	case "3", "exit", "quit":
		return errExit
	default:
		s.println("Invalid choice. Try again.")
		return nil
	}
}

func (s *Shell) authenticated(ctx context.Context) error {
	user, _ := s.vault.User()
	s.printf(authenticatedMenu+"\n", user.Username)
	choice, err := s.readLine("Choose (1-8): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return s.store(ctx)
	case "2":
		return s.retrieve(ctx)
	case "3":
		return s.list(ctx)
	case "4":
		return s.copySecret(ctx)
	case "5":
		return s.deleteSecret(ctx)
	case "6":
		return s.changePassword(ctx)
	case "7":
		return s.deleteAccount(ctx)
	case "8":
		s.vault.Logout(ctx)
		s.println("Logging out...")
		return nil
	default:
		s.println("Invalid choice. Try again.")
		return nil
	}
}

func (s *Shell) register(ctx context.Context) error {
	username, err := s.readLine("Enter a new username: ")
	if err != nil {
		return err
	}
	password, err := s.readSecret("Set a master password: ")
	if err != nil {
		return err
	}

	if _, err = s.vault.Register(ctx, username, password); err != nil {
		s.fail(err)
		return nil
	}

	s.printf("User '%s' registered successfully!\n", username)
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	username, err := s.readLine("Enter your username: ")
	if err != nil {
		return err
	}
	password, err := s.readSecret("Enter your master password: ")
	if err != nil {
		return err
	}

	user, err := s.vault.Login(ctx, username, password)
	if err != nil {
		s.fail(err)
		return nil
	}

	s.printf("Login successful! Welcome, %s.\n", user.Username)
	return nil
}

func (s *Shell) store(ctx context.Context) error {
	label, err := s.readLine("Enter the website/app name: ")
	if err != nil {
		return err
	}
	secret, err := s.readSecret("Enter the password to store: ")
	if err != nil {
		return err
	}

	if _, err = s.vault.StoreSecret(ctx, label, secret); err != nil {
		s.fail(err)
		return nil
	}

	s.println("Password stored successfully!")
	return nil
}

func (s *Shell) retrieve(ctx context.Context) error {
	label, err := s.readLine("Enter the website/app name to retrieve password: ")
	if err != nil {
		return err
	}

	secrets, err := s.vault.RetrieveSecret(ctx, label)
	if err != nil {
		s.failLabel(err)
		return nil
	}

	for _, secret := range secrets {
		if !secret.OK() {
			s.printf("Password for %s: %s\n", secret.SiteLabel, MsgUndecryptable)
			continue
		}
		s.printf("Password for %s: %s\n", secret.SiteLabel, secret.Plaintext)
	}
	return nil
}

// list prints labels only; plaintexts are shown on explicit retrieval.
func (s *Shell) list(ctx context.Context) error {
	secrets, err := s.vault.RetrieveSecrets(ctx)
	if err != nil {
		s.fail(err)
		return nil
	}

	if len(secrets) == 0 {
		s.println("No passwords stored yet.")
		return nil
	}

	for i, secret := range secrets {
		line := fmt.Sprintf("%d. %s", i+1, secret.SiteLabel)
		if !secret.OK() {
			line += " (unreadable)"
		}
		s.println(line)
	}
	return nil
}

func (s *Shell) copySecret(ctx context.Context) error {
	label, err := s.readLine("Enter the website/app name to copy password: ")
	if err != nil {
		return err
	}

	secrets, err := s.vault.RetrieveSecret(ctx, label)
	if err != nil {
		s.failLabel(err)
		return nil
	}

	secret := secrets[0]
	if len(secrets) > 1 {
		secret, err = s.choose(secrets)
		if err != nil {
			return err
		}
	}

	if !secret.OK() {
		s.println(MsgUndecryptable)
		return nil
	}

	if err = s.copy(secret.Plaintext); err != nil {
		s.logger.Warn().Err(err).Msg("clipboard write failed")
		s.println(MsgClipboardFailure)
		return nil
	}

	s.printf("Password for %s copied to clipboard.\n", secret.SiteLabel)
	return nil
}

func (s *Shell) choose(secrets []models.Secret) (models.Secret, error) {
	s.printf("%d passwords are stored for this website:\n", len(secrets))
	for i := range secrets {
		s.printf("%d. %s (entry %d)\n", i+1, secrets[i].SiteLabel, secrets[i].CredentialID)
	}

	for {
		answer, err := s.readLine(fmt.Sprintf("Choose (1-%d): ", len(secrets)))
		if err != nil {
			return models.Secret{}, err
		}

		var n int
		if _, scanErr := fmt.Sscanf(answer, "%d", &n); scanErr == nil && n >= 1 && n <= len(secrets) {
			return secrets[n-1], nil
		}
		s.println("Invalid choice. Try again.")
	}
}

func (s *Shell) deleteSecret(ctx context.Context) error {
	label, err := s.readLine("Enter the website/app name to delete password: ")
	if err != nil {
		return err
	}

	removed, err := s.vault.DeleteSecret(ctx, label)
	if err != nil {
		s.failLabel(err)
		return nil
	}

	s.printf("Deleted %d password(s) for %s.\n", removed, label)
	return nil
}

func (s *Shell) changePassword(ctx context.Context) error {
	oldPassword, err := s.readSecret("Enter your current master password: ")
	if err != nil {
		return err
	}
	newPassword, err := s.readSecret("Enter a new master password: ")
	if err != nil {
		return err
	}
	repeated, err := s.readSecret("Repeat the new master password: ")
	if err != nil {
		return err
	}

	if newPassword != repeated {
		s.println("The new passwords do not match.")
		return nil
	}

	if err = s.vault.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		s.fail(err)
		return nil
	}

	s.println("Master password changed successfully!")
	return nil
}

func (s *Shell) deleteAccount(ctx context.Context) error {
	confirm, err := s.readLine("Are you sure you want to delete your account? (yes/no): ")
	if err != nil {
		return err
	}

	if strings.ToLower(confirm) != "yes" {
		s.println("Account deletion cancelled.")
		return nil
	}

	if err = s.vault.DeleteAccount(ctx); err != nil && !errors.Is(err, service.ErrNotFound) {
		s.fail(err)
		return nil
	}

	s.println("Your account has been deleted. Logging out...")
	return nil
}

// fail prints the fixed message for err. Faults are logged too.
func (s *Shell) fail(err error) {
	if !expected(err) {
		s.logger.Err(err).Msg("vault operation failed")
	}
	s.println(message(err))
}

// failLabel is fail with a site specific text for ErrNotFound.
func (s *Shell) failLabel(err error) {
	if errors.Is(err, service.ErrNotFound) {
		s.println(MsgNoSecretForSite)
		return
	}
	s.fail(err)
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
