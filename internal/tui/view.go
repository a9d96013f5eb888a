package tui

import (
	"strings"

	"github.com/runoshun/mfnd/internal/shell"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		if m.err != nil {
			return m.styles.ErrorMsg.Render("Store error, ending session: "+m.err.Error()) + "\n"
		}
		return shell.ExitMessage + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(m.session.Header()))
	b.WriteString("\n")
	b.WriteString(m.styles.TaskList.Render(m.renderTasks()))
	b.WriteString("\n")

	if m.output != "" {
		b.WriteString(m.styles.Output.Render(strings.TrimRight(m.output, "\n")))
		b.WriteString("\n")
	}
	if m.warning != "" {
		b.WriteString(m.styles.WarningMsg.Render(m.warning))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine.Render(m.statusInfo()))
	return m.styles.App.Render(b.String())
}

func (m *Model) renderTasks() string {
	lines := m.session.Tree().Lines()
	if len(lines) == 0 {
		return m.styles.EmptyList.Render("No tasks. Type 'todo <description>' to add one.")
	}

	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		indent := strings.Repeat("  ", l.Level)
		rows = append(rows, indent+m.styles.TaskLabel.Render(l.Label)+" "+m.styles.TaskStyle(l.Done).Render(l.Description))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) statusInfo() StatusLineInfo {
	h := m.session.History()
	return StatusLineInfo{
		KeyHints: m.keys.ShortHelp(),
		Done:     h.Len(),
		Tasks:    len(m.session.Tree().Lines()),
		CanRedo:  h.CanRedo(),
	}
}
