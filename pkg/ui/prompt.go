package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// UsernamePrompt is shown when no profile is given on the command line
const UsernamePrompt = "Enter RedGifs username: "

// ErrNoInput is returned when the prompt reaches end of input without a name
var ErrNoInput = errors.New("no username entered")

// IsInteractive reports whether f is a terminal a user can type into
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PromptUsername asks for a profile name and reads one line from in
func PromptUsername(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, UsernamePrompt)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read username: %w", err)
	}

	username := strings.TrimSpace(line)
	if username == "" {
		return "", ErrNoInput
	}
	return username, nil
}
