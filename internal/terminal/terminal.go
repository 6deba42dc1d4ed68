// Package terminal prompts for passphrases without echoing them.
package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// ErrMismatch is returned when the confirmation differs from the first entry.
	ErrMismatch = errors.New("passphrases do not match")
	// ErrNoTerminal is returned when neither stdin nor /dev/tty is a terminal.
	ErrNoTerminal = errors.New("no terminal available, set the passphrase with --password or GOCAMO_PASSWORD")
)

// Prompter writes prompts to Out and reads hidden input with ReadPassword.
type Prompter struct {
	Out          io.Writer
	ReadPassword func() ([]byte, error)
}

// New returns a Prompter that prompts on out and reads from the controlling terminal.
func New(out io.Writer) *Prompter {
	return &Prompter{Out: out, ReadPassword: readPassword}
}

// Passphrase asks for a passphrase once.
func (p *Prompter) Passphrase(prompt string) (string, error) {
	passphrase, err := p.read(prompt)
	if err != nil {
		return "", err
	}

	defer zero(passphrase)

	return string(passphrase), nil
}

// PassphraseWithConfirm asks for a passphrase twice and fails if the entries differ.
func (p *Prompter) PassphraseWithConfirm(prompt, confirmPrompt string) (string, error) {
	passphrase, err := p.read(prompt)
	if err != nil {
		return "", err
	}

	defer zero(passphrase)

	confirm, err := p.read(confirmPrompt)
	if err != nil {
		return "", err
	}

	defer zero(confirm)

	if !bytes.Equal(passphrase, confirm) {
		return "", ErrMismatch
	}

	return string(passphrase), nil
}

func (p *Prompter) read(prompt string) ([]byte, error) {
	fmt.Fprint(p.Out, prompt)

	passphrase, err := p.ReadPassword()

	fmt.Fprintln(p.Out)

	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	return passphrase, nil
}

// readPassword reads from stdin when it is a terminal, otherwise from /dev/tty.
func readPassword() ([]byte, error) {
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, ErrNoTerminal
	}
	defer tty.Close()

	return term.ReadPassword(int(tty.Fd()))
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
