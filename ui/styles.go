package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indexes, so the view follows the terminal theme.
var (
	dimColor    = lipgloss.Color("7")
	accentColor = lipgloss.Color("12")
	userColor   = lipgloss.Color("10")
	dangerColor = lipgloss.Color("9")
)

var (
	UserStyle      = lipgloss.NewStyle().Foreground(userColor).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(accentColor)
	ErrorStyle     = lipgloss.NewStyle().Foreground(dangerColor)
	DimStyle       = lipgloss.NewStyle().Foreground(dimColor)
	TitleStyle     = lipgloss.NewStyle().Bold(true)
	StatusStyle    = DimStyle
	keyDescStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)

// FormatFooter renders key/description pairs, e.g.
// FormatFooter("Enter", "Send", "Esc", "Quit").
func FormatFooter(pairs ...string) string {
	items := make([]string, 0, len(pairs)/2)
	for i := 1; i < len(pairs); i += 2 {
		items = append(items, pairs[i-1]+" "+keyDescStyle.Render(pairs[i]))
	}
	return strings.Join(items, "  ")
}
