package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles used for console output. Colors are dropped automatically when
// the output is not a terminal.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds styles bound to the color profile of w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		Header:  r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("#9E9E9E")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#e53935")),
	}
}
