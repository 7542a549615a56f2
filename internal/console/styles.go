package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for console output
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Heading   lipgloss.Style
	Prompt    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Hidden    lipgloss.Style
	Value     lipgloss.Style
	Money     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
}

// NewStyles builds styles bound to w. With color false every style renders
// plain text, which is also what happens when w is not a terminal.
func NewStyles(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Separator: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Heading: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Hidden: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Value: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Money: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}
