// Package secureterm reads a passphrase from the controlling terminal
// without echoing it. Adapted from the teacher repository's
// pkg/util/password.go.
package secureterm

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Prompt writes prompt to stderr, then reads a line of hidden input from
// stdin. It fails if stdin is not an interactive terminal.
func Prompt(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("secureterm: interactive password prompting requires a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("secureterm: failed to read password: %w", err)
	}
	return string(password), nil
}

// PromptWithConfirmation prompts for a passphrase twice and fails if the
// two entries don't match or the first is empty.
func PromptWithConfirmation(label string) (string, error) {
	password, err := Prompt(label + ": ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf("secureterm: password cannot be empty")
	}

	confirm, err := Prompt("Confirm " + label + ": ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("secureterm: passwords do not match")
	}
	return password, nil
}
