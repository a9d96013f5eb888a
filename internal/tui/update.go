package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/mfnd/internal/domain"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.statusLine.SetWidth(msg.Width)
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgExecuted:
		return m.handleExecuted(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		line := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(line) != "" {
			m.recall = append(m.recall, line)
		}
		m.recallIdx = len(m.recall)
		return m.handleExecuted(m.exec(line))

	case key.Matches(msg, m.keys.Previous):
		if m.recallIdx > 0 {
			m.recallIdx--
			m.input.SetValue(m.recall[m.recallIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.recallIdx < len(m.recall)-1 {
			m.recallIdx++
			m.input.SetValue(m.recall[m.recallIdx])
			m.input.CursorEnd()
		} else {
			m.recallIdx = len(m.recall)
			m.input.Reset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.output, m.warning = "", ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exec runs a line in the update loop so the session is only ever
// touched from one goroutine.
func (m *Model) exec(line string) MsgExecuted {
	res, err := m.session.Exec(m.ctx, line)
	return MsgExecuted{Line: line, Result: res, Err: err}
}

func (m *Model) handleExecuted(msg MsgExecuted) (tea.Model, tea.Cmd) {
	for {
		if msg.Err != nil {
			if !domain.IsRecoverable(msg.Err) {
				m.err = msg.Err
				m.quitting = true
				return m, tea.Quit
			}
			m.output = ""
			m.warning = "!!! Warning unusable input: '" + msg.Line + "' (" + msg.Err.Error() + ")"
		} else {
			m.warning = ""
			m.output = msg.Result.Output
			if msg.Result.Exit {
				m.quitting = true
				return m, tea.Quit
			}
		}

		line, ok := m.session.Next()
		if !ok {
			return m, nil
		}
		msg = m.exec(line)
	}
}
