package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type modalKind int

const (
	modalInfo modalKind = iota
	modalError
)

const defaultModalWidth = 60

// modal is a borderless box: a title, a ruled body and a ruled footer.
type modal struct {
	title  string
	body   []string
	footer string
	kind   modalKind
	width  int
}

func (m modal) titleColor() lipgloss.Color {
	if m.kind == modalError {
		return dangerColor
	}
	return accentColor
}

// boxWidth shrinks the requested width to leave a margin on narrow screens.
func (m modal) boxWidth(screenWidth int) int {
	w := m.width
	if w == 0 {
		w = defaultModalWidth
	}
	if screenWidth-10 < w {
		w = screenWidth - 10
	}
	return w
}

// render places the modal in the middle of a screenWidth x screenHeight area.
func (m modal) render(screenWidth, screenHeight int) string {
	w := m.boxWidth(screenWidth)
	rule := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(w)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.titleColor()).
		Render(padCenter(m.title, w))

	blank := strings.Repeat(" ", w)
	body := rule.Render(blank + "\n" + strings.Join(m.body, "\n") + "\n" + blank)
	footer := rule.Foreground(dimColor).Align(lipgloss.Center).Render(m.footer)

	return lipgloss.Place(screenWidth, screenHeight, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, title, body, footer))
}

// padCenter centers s in width columns using display width, so wide glyphs
// in titles line up.
func padCenter(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// centerLines centers each line of message within width.
func centerLines(message string, width int) []string {
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return lines
}

// ErrorModal is a standalone program shown when the chat cannot start,
// e.g. because the selected provider has no API key.
type ErrorModal struct {
	title, message string
	width, height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{title: title, message: message}
}

func (m ErrorModal) Init() tea.Cmd { return nil }

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + ": " + m.message
	}
	box := modal{title: m.title, footer: "Press Enter to quit", kind: modalError}
	box.body = centerLines(m.message, box.boxWidth(m.width))
	return box.render(m.width, m.height)
}
