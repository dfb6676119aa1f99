package tools

import (
	"context"
	"fmt"
	"strings"

	"coursebot/storage"
)

const defaultSearchLimit = 5

// SearchHistoryArgs are the arguments of the search_history tool.
type SearchHistoryArgs struct {
	Query string `json:"query" jsonschema:"description=Text to look for in earlier questions and answers"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of matches to return (default 5),minimum=1,maximum=20"`
}

type historySearcher interface {
	Search(ctx context.Context, query string, limit int) ([]storage.ExchangeMatch, error)
}

// SearchHistoryTool lets the model look up earlier conversations.
func SearchHistoryTool(store historySearcher) (Tool, error) {
	return NewTypedTool("search_history",
		"Search earlier conversations with this assistant for questions or answers mentioning a topic",
		func(ctx context.Context, args SearchHistoryArgs) (any, error) {
			if strings.TrimSpace(args.Query) == "" {
				return nil, fmt.Errorf("query is required")
			}
			limit := args.Limit
			if limit <= 0 {
				limit = defaultSearchLimit
			}

			matches, err := store.Search(ctx, args.Query, limit)
			if err != nil {
				return nil, fmt.Errorf("history search failed: %w", err)
			}
			return formatMatches(args.Query, matches), nil
		})
}

func formatMatches(query string, matches []storage.ExchangeMatch) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No earlier conversation mentions %q.", query)
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s, %s]\nQ: %s", m.SessionName, m.Timestamp.Format("2006-01-02"), m.Question)
		if m.Answer != "" {
			fmt.Fprintf(&b, "\nA: %s", m.Answer)
		}
	}
	return b.String()
}
