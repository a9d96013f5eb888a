package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// StatusLineInfo contains information for rendering the status line.
// Fields are ordered to minimize memory padding.
type StatusLineInfo struct {
	KeyHints []key.Binding
	Done     int // Commands that can be undone
	Tasks    int // Visible tasks
	CanRedo  bool
}

// StatusLine renders a unified status line at the bottom of the screen.
// Fields are ordered to minimize memory padding.
type StatusLine struct {
	styles *Styles
	width  int
}

// NewStatusLine creates a new StatusLine with the given width and styles.
func NewStatusLine(width int, styles *Styles) *StatusLine {
	return &StatusLine{
		width:  width,
		styles: styles,
	}
}

// SetWidth updates the status line width.
func (s *StatusLine) SetWidth(width int) {
	s.width = width
}

// Render renders the status line with the given info.
func (s *StatusLine) Render(info StatusLineInfo) string {
	hints := make([]string, 0, len(info.KeyHints))
	for _, h := range info.KeyHints {
		help := h.Help()
		hints = append(hints, s.styles.FooterKey.Render(help.Key)+" "+help.Desc)
	}
	content := strings.Join(hints, "  ")

	right := fmt.Sprintf("tasks:%d undo:%d", info.Tasks, info.Done)
	if info.CanRedo {
		right += " redo"
	}

	if s.width <= 0 {
		return s.styles.Footer.Render(content + "  " + right)
	}

	contentWidth := s.width - 2
	rightLen := lipgloss.Width(right)
	contentLen := lipgloss.Width(content)

	maxContentWidth := contentWidth - rightLen - 2
	if contentLen > maxContentWidth {
		if maxContentWidth <= 3 {
			content = "..."
		} else {
			truncateStyle := lipgloss.NewStyle().MaxWidth(maxContentWidth - 3)
			content = truncateStyle.Render(content) + "..."
		}
		contentLen = lipgloss.Width(content)
	}

	spacing := contentWidth - contentLen - rightLen
	if spacing < 1 {
		spacing = 1
	}

	return s.styles.Footer.Width(s.width).Render(content + strings.Repeat(" ", spacing) + right)
}
