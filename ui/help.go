package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var helpKeys = [][2]string{
	{"Enter", "Send question"},
	{"Ctrl+N", "New session"},
	{"Alt+Y", "Copy last answer"},
	{"Alt+C", "Copy conversation"},
	{"Alt+J/K", "Half page down/up"},
	{"PgDn/PgUp", "Full page down/up"},
	{"Alt+H", "Toggle this help"},
	{"Esc", "Quit"},
}

func (a AppView) renderHelpModal(width, height int) string {
	blue := lipgloss.NewStyle().Foreground(accentColor)

	lines := []string{blue.Render("## Keys")}
	for _, k := range helpKeys {
		lines = append(lines, fmt.Sprintf("• %-11s %s", k[0], k[1]))
	}
	lines = append(lines, "",
		blue.Render("## Session"),
		fmt.Sprintf("• Provider    %s", a.providerName),
		fmt.Sprintf("• Model       %s", a.service.Model()),
		fmt.Sprintf("• Tools       %d", a.toolCount),
	)

	help := modal{
		title:  "coursebot - Help",
		body:   lines,
		footer: FormatFooter("Alt+H", "Close"),
		kind:   modalInfo,
		width:  50,
	}
	return help.render(width, height)
}
