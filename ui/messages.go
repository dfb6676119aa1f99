package ui

import (
	"time"

	"coursebot/chat"
	"coursebot/storage"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
)

// Message is one line of the conversation as shown in the viewport.
type Message struct {
	Role      string
	Content   string
	Rendered  string
	Timestamp time.Time
	Failed    bool
}

type answerMsg struct {
	answer chat.Answer
	err    error
}

type markdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

// messagesFromExchanges turns stored exchanges into viewport messages.
func messagesFromExchanges(exchanges []storage.Exchange) []Message {
	messages := make([]Message, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		messages = append(messages,
			Message{Role: roleUser, Content: ex.Question, Rendered: ex.Question, Timestamp: ex.CreatedAt},
			Message{Role: roleAssistant, Content: ex.Answer, Rendered: ex.Answer, Timestamp: ex.CreatedAt, Failed: ex.Failed()},
		)
	}
	return messages
}
