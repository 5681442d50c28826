package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// readLine prints prompt and reads one line of input with surrounding
// whitespace trimmed. A final line without a newline is still returned.
func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// readSecret prints prompt and reads a password without echo when the
// input is a terminal. Otherwise it reads a plain line; only the trailing
// line break is removed, so leading and trailing spaces are kept.
func (s *Shell) readSecret(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	if s.fd >= 0 {
		secret, err := readPassword(s.fd)
		fmt.Fprintln(s.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(secret), nil
	}

	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// terminalFD returns the descriptor of in if it is a terminal, or -1.
func terminalFD(in io.Reader) int {
	f, ok := in.(interface{ Fd() uintptr })
	if !ok {
		return -1
	}

	fd := int(f.Fd())
	if !isTerminal(fd) {
		return -1
	}

	return fd
}
