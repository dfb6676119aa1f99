// Package chat runs one question through a provider with the session's
// recent history and the registered tools, and records the exchange.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursebot/config"
	"coursebot/model"
	"coursebot/storage"
	"coursebot/tools"
)

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question must not be empty")

type historyStore interface {
	CreateSession(ctx context.Context, firstQuestion string) (*storage.Session, error)
	Session(ctx context.Context, id string) (*storage.Session, error)
	History(ctx context.Context, sessionID string, maxExchanges int) (string, error)
	AddExchange(ctx context.Context, ex storage.Exchange) (int64, error)
}

type Service struct {
	provider     model.Provider
	providerName string
	store        historyStore
	tools        *tools.Registry
	maxHistory   int
}

// NewService builds a Service. registry may be nil when no tools are
// offered.
func NewService(provider model.Provider, providerName string, store historyStore, registry *tools.Registry, maxHistory int) *Service {
	return &Service{
		provider:     provider,
		providerName: providerName,
		store:        store,
		tools:        registry,
		maxHistory:   maxHistory,
	}
}

// Answer is the outcome of one Ask call.
type Answer struct {
	SessionID string
	Text      string
	Failed    bool
}

// Ask answers question within sessionID, creating a session when sessionID
// is empty. Provider failures are returned as answer text with Failed set;
// the error return is reserved for storage problems.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	if sessionID == "" {
		session, err := s.store.CreateSession(ctx, question)
		if err != nil {
			return Answer{}, err
		}
		sessionID = session.ID
	} else if _, err := s.store.Session(ctx, sessionID); err != nil {
		return Answer{}, err
	}

	history, err := s.store.History(ctx, sessionID, s.maxHistory)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to load history: %w", err)
	}

	req := model.Request{Query: question, History: history}
	if s.tools != nil && s.tools.Len() > 0 && s.provider.SupportsTools() {
		req.Tools = s.tools.Definitions()
		req.Executor = s.tools
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Chat] Session %s: asking %s with %d tools", sessionID, s.provider.GetModel(), len(req.Tools))
	}

	text := s.provider.GenerateResponse(ctx, req)

	if _, err := s.store.AddExchange(ctx, storage.Exchange{
		SessionID: sessionID,
		Question:  question,
		Answer:    text,
		Provider:  s.providerName,
		Model:     s.provider.GetModel(),
	}); err != nil {
		return Answer{SessionID: sessionID, Text: text, Failed: model.IsFailureText(text)},
			fmt.Errorf("failed to save exchange: %w", err)
	}

	return Answer{SessionID: sessionID, Text: text, Failed: model.IsFailureText(text)}, nil
}

// Model returns the model identifier of the underlying provider.
func (s *Service) Model() string {
	return s.provider.GetModel()
}
