// Package ui is the interactive terminal chat.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"coursebot/chat"
	"coursebot/storage"
)

const (
	headerHeight = 2
	inputHeight  = 3
	footerHeight = 2
)

type asker interface {
	Ask(ctx context.Context, sessionID, question string) (chat.Answer, error)
	Model() string
}

type AppView struct {
	ctx          context.Context
	service      asker
	providerName string
	toolCount    int

	sessionID string
	messages  []Message

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	waiting  bool
	showHelp bool
	status   string
}

// Options configures a new AppView.
type Options struct {
	ProviderName string
	ToolCount    int

	// SessionID resumes a stored session; History holds its exchanges.
	SessionID string
	History   []storage.Exchange
}

func NewAppView(ctx context.Context, service asker, opts Options) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about the course..."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		ctx:          ctx,
		service:      service,
		providerName: opts.ProviderName,
		toolCount:    opts.ToolCount,
		sessionID:    opts.SessionID,
		messages:     messagesFromExchanges(opts.History),
		textarea:     ta,
		spinner:      sp,
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

// SessionID returns the session the view is writing to, empty before the
// first question.
func (a AppView) SessionID() string {
	return a.sessionID
}

func (a AppView) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	sections := []string{
		a.renderHeader(),
		a.viewport.View(),
		DimStyle.Render(strings.Repeat("─", a.width)),
		a.textarea.View(),
		a.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a AppView) renderHeader() string {
	title := "coursebot · " + a.providerName + " · " + a.service.Model()
	if a.toolCount > 0 {
		title += fmt.Sprintf(" · tools: %d", a.toolCount)
	}
	title = runewidth.Truncate(title, a.width, "...")
	return TitleStyle.Render(title) + "\n" + DimStyle.Render(strings.Repeat("─", a.width))
}

func (a AppView) renderFooter() string {
	left := FormatFooter("Enter", "Send", "Alt+H", "Help", "Esc", "Quit")
	if a.status != "" {
		left = StatusStyle.Render(a.status)
	}
	return "\n" + left
}

func (a *AppView) resize(width, height int) {
	a.width = width
	a.height = height

	vpHeight := height - headerHeight - inputHeight - footerHeight - 1
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !a.ready {
		a.viewport = viewport.New(width, vpHeight)
		a.ready = true
	} else {
		a.viewport.Width = width
		a.viewport.Height = vpHeight
	}
	a.textarea.SetWidth(width)
}

func (a *AppView) addMessage(role, content string, failed bool) int {
	a.messages = append(a.messages, Message{
		Role:      role,
		Content:   content,
		Rendered:  content,
		Timestamp: time.Now(),
		Failed:    failed,
	})
	return len(a.messages) - 1
}
