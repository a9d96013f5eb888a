// Package tui provides the terminal user interface for the mfnd shell.
package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/mfnd/internal/shell"
)

// Model is the main bubbletea model for the shell TUI.
// Fields are ordered to minimize memory padding.
type Model struct {
	ctx        context.Context
	err        error
	session    *shell.Session
	statusLine *StatusLine
	styles     Styles
	keys       KeyMap
	output     string
	warning    string
	recall     []string
	input      textinput.Model
	recallIdx  int
	width      int
	quitting   bool
}

// New creates a new TUI model driving session.
func New(ctx context.Context, session *shell.Session) *Model {
	input := textinput.New()
	input.Prompt = shell.Prompt
	input.Placeholder = "todo <description>, help, exit"
	input.Focus()

	styles := DefaultStyles()
	input.PromptStyle = styles.InputPrompt

	m := &Model{
		ctx:     ctx,
		session: session,
		styles:  styles,
		keys:    DefaultKeyMap(),
		input:   input,
	}
	m.statusLine = NewStatusLine(0, &m.styles)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Run starts the TUI on the given terminal streams and blocks until the
// user exits.
func Run(ctx context.Context, session *shell.Session, in io.Reader, out io.Writer) error {
	defer session.Close()

	m := New(ctx, session)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}
