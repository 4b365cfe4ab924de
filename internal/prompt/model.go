// model.go is the Bubble Tea model behind the authorization-code field.
package prompt

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// codeModel is a single-field input for the pasted authorization code.
type codeModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func newCodeModel() codeModel {
	ti := textinput.New()
	ti.Prompt = "Paste the 'authorizationCode' value: "
	ti.Placeholder = "authorizationCode"
	ti.CharLimit = 128
	ti.Focus()
	return codeModel{input: ti}
}

// Init returns the initial command for the prompt.
func (m codeModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input; enter accepts, esc or ctrl+c declines.
func (m codeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input line.
func (m codeModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.input.View() + "\n"
}
