package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	TitleNormal lipgloss.Color
	Label       lipgloss.Color
	Done        lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal: lipgloss.Color("#DFE6E9"), // Light gray
	Label:       lipgloss.Color("#74B9FF"), // Light blue
	Done:        lipgloss.Color("#636E72"), // Gray
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header lipgloss.Style

	// Task list
	TaskList  lipgloss.Style
	TaskLabel lipgloss.Style
	TaskTitle lipgloss.Style
	TaskDone  lipgloss.Style
	EmptyList lipgloss.Style

	// Command output (help)
	Output lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Input
	InputPrompt lipgloss.Style

	// Messages
	ErrorMsg   lipgloss.Style
	WarningMsg lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		TaskList: lipgloss.NewStyle().
			MarginBottom(1),

		TaskLabel: lipgloss.NewStyle().
			Foreground(Colors.Label).
			Bold(true),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskDone: lipgloss.NewStyle().
			Foreground(Colors.Done).
			Strikethrough(true),

		EmptyList: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		Output: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		WarningMsg: lipgloss.NewStyle().
			Foreground(Colors.Warning),
	}
}

// TaskStyle returns the style for a task description.
func (s Styles) TaskStyle(done bool) lipgloss.Style {
	if done {
		return s.TaskDone
	}
	return s.TaskTitle
}
