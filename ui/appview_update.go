package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"coursebot/config"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.updateViewportContent(true)
		return a, a.renderAllMarkdown()

	case tea.KeyMsg:
		a.status = ""
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "esc":
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			return a, tea.Quit

		case "alt+h":
			a.showHelp = !a.showHelp
			return a, nil

		case "enter":
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			return a.submit()

		case "ctrl+n":
			if a.waiting {
				return a, nil
			}
			a.sessionID = ""
			a.messages = nil
			a.status = "New session"
			a.updateViewportContent(true)
			return a, nil

		case "alt+y":
			for i := len(a.messages) - 1; i >= 0; i-- {
				if a.messages[i].Role == roleAssistant {
					a.copyToClipboard(a.messages[i].Content, "Copied last answer")
					break
				}
			}
			return a, nil

		case "alt+c":
			a.copyToClipboard(a.transcript(), "Copied conversation")
			return a, nil

		case "alt+j", "alt+down":
			a.viewport.HalfPageDown()
			return a, nil

		case "alt+k", "alt+up":
			a.viewport.HalfPageUp()
			return a, nil

		case "pgdown":
			a.viewport.PageDown()
			return a, nil

		case "pgup":
			a.viewport.PageUp()
			return a, nil
		}

	case answerMsg:
		a.waiting = false
		if msg.answer.SessionID != "" {
			a.sessionID = msg.answer.SessionID
		}

		if msg.answer.Text != "" {
			idx := a.addMessage(roleAssistant, msg.answer.Text, msg.answer.Failed)
			if !msg.answer.Failed {
				cmds = append(cmds, a.renderMarkdownAsync(idx, msg.answer.Text))
			}
		}
		if msg.err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Ask failed: %v", msg.err)
			}
			a.addMessage(roleSystem, "Error: "+msg.err.Error(), true)
		}

		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case markdownRenderedMsg:
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.messages) {
			a.messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(a.viewport.AtBottom())
		}
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)

	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// submit sends the textarea content as a question.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(a.textarea.Value())
	if question == "" || a.waiting {
		return a, nil
	}

	a.textarea.Reset()
	a.addMessage(roleUser, question, false)
	a.waiting = true
	a.updateViewportContent(true)

	return a, tea.Batch(a.askCmd(question), a.spinner.Tick)
}

func (a AppView) askCmd(question string) tea.Cmd {
	ctx := a.ctx
	service := a.service
	sessionID := a.sessionID

	return func() tea.Msg {
		answer, err := service.Ask(ctx, sessionID, question)
		return answerMsg{answer: answer, err: err}
	}
}

func (a *AppView) copyToClipboard(text, okStatus string) {
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.status = "Clipboard unavailable"
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Clipboard write failed: %v", err)
		}
		return
	}
	a.status = okStatus
}

// transcript renders the conversation as plain text.
func (a AppView) transcript() string {
	var b strings.Builder
	for _, msg := range a.messages {
		role := "System"
		switch msg.Role {
		case roleUser:
			role = "You"
		case roleAssistant:
			role = "Assistant"
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), role, msg.Content)
	}
	return b.String()
}
