package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colour palette for command output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	labelStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourError)
)

// summary renders a job title followed by aligned label/value rows.
// rows alternate label, value.
func summary(title string, rows ...string) string {
	width := 0
	for i := 0; i < len(rows); i += 2 {
		width = max(width, len(rows[i]))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for i := 0; i+1 < len(rows); i += 2 {
		pad := strings.Repeat(" ", width-len(rows[i]))
		fmt.Fprintf(&b, "  %s%s %s\n", labelStyle.Render(rows[i]+":"), pad, rows[i+1])
	}
	return b.String()
}
