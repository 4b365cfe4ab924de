// Package prompt collects the authorization code from the user: a
// Bubble Tea input field on a terminal, a plain stdin read otherwise.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// IsTTY returns true if stdin is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// AuthorizationCode prints the browser redirect URL and reads back the
// authorization code. An empty result means the user declined.
func AuthorizationCode(redirectURL string) (string, error) {
	fmt.Printf("Open this URL in a web browser (signed into your account): %s\n", redirectURL)

	if IsTTY() {
		p := tea.NewProgram(newCodeModel())
		final, err := p.Run()
		if err != nil {
			return "", fmt.Errorf("running code prompt: %w", err)
		}
		m, ok := final.(codeModel)
		if !ok || m.aborted {
			return "", nil
		}
		return strings.TrimSpace(m.input.Value()), nil
	}

	fmt.Print("Paste the 'authorizationCode' value: ")
	return ReadLine(os.Stdin)
}

// ReadLine reads one line and trims it. EOF with no input yields an
// empty code, which callers treat as a declined prompt.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading authorization code: %w", err)
	}
	return strings.TrimSpace(line), nil
}
