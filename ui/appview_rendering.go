package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"coursebot/config"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s\x1b]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

const codeBar = "┃"

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if !a.ready {
		return
	}

	if len(a.messages) == 0 && !a.waiting {
		a.viewport.SetContent(DimStyle.Render("No questions yet. Ask anything about the course."))
		return
	}

	var content strings.Builder
	for _, msg := range a.messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch {
		case msg.Role == roleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), msg.Rendered))
		case msg.Failed:
			role := ErrorStyle.Render("Assistant")
			if msg.Role == roleSystem {
				role = ErrorStyle.Render("System")
			}
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, ErrorStyle.Render(msg.Rendered)))
		default:
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), msg.Rendered))
		}
	}

	if a.waiting {
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		content.WriteString(fmt.Sprintf("%s %s\n%s Thinking...\n\n", timestamp, AssistantStyle.Render("Assistant"), a.spinner.View()))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render(codeBar)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")
	return result.String()
}

// renderAllMarkdown re-renders every successful answer, e.g. after a resize.
func (a AppView) renderAllMarkdown() tea.Cmd {
	var cmds []tea.Cmd
	for i, msg := range a.messages {
		if msg.Role == roleAssistant && !msg.Failed {
			cmds = append(cmds, a.renderMarkdownAsync(i, msg.Content))
		}
	}
	return tea.Batch(cmds...)
}

func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)

		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Rendered message %d (%d chars) in %v", messageIndex, len(content), time.Since(start))
		}

		return markdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     rendered,
		}
	}
}

// renderMarkdown renders an answer for a terminal of the given width.
// Autolinking is off so terminals can detect the plain URLs themselves.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}

	content = preprocessLinks(content)

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	return postProcessMarkdown(string(rendered), width)
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = fixMarkdownLinks(rendered)
	return frameCodeBlocks(rendered, width)
}

// preprocessLinks replaces [text](url) with the bare url.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the renderer's blue-background inline code for red
// text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's left bar on code lines with a
// horizontal rule above and below the block.
func frameCodeBlocks(s string, width int) string {
	const darkGray = "\x1b[90m"
	const reset = "\x1b[0m"

	ruleWidth := width - 4
	if ruleWidth < 8 {
		ruleWidth = 8
	}
	label := "[code]"
	left := (ruleWidth - len(label)) / 2
	topBorder := darkGray + strings.Repeat("━", left) + reset + label + darkGray + strings.Repeat("━", ruleWidth-len(label)-left) + reset
	bottomBorder := darkGray + strings.Repeat("━", ruleWidth) + reset

	var result []string
	inCodeBlock := false

	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, "", topBorder, "")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}

		if inCodeBlock {
			result = append(result, "", bottomBorder, "")
			inCodeBlock = false
		}
		result = append(result, line)
	}

	if inCodeBlock {
		result = append(result, "", bottomBorder, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
