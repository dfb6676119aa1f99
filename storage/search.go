package storage

import (
	"context"
	"strings"
	"time"
)

// ExchangeMatch is a search hit in stored history.
type ExchangeMatch struct {
	SessionID   string
	SessionName string
	ExchangeID  int64
	Question    string
	Answer      string
	Preview     string
	Timestamp   time.Time
}

const previewLength = 100

// Search finds exchanges whose question or answer contains query, case
// insensitively, newest first. Failed exchanges are skipped. limit <= 0
// means no limit.
func (hs *HistoryStore) Search(ctx context.Context, query string, limit int) ([]ExchangeMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ExchangeMatch{}, nil
	}

	sqlQuery := `
	SELECT e.id, e.session_id, s.name, e.question, e.answer, e.created_at
	FROM exchanges e JOIN sessions s ON s.id = e.session_id
	WHERE instr(lower(e.question), lower(?)) > 0 OR instr(lower(e.answer), lower(?)) > 0
	ORDER BY e.id DESC
	`

	rows, err := hs.db.QueryContext(ctx, sqlQuery, query, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queryLower := strings.ToLower(query)
	matches := []ExchangeMatch{}
	for rows.Next() {
		var m ExchangeMatch
		if err := rows.Scan(&m.ExchangeID, &m.SessionID, &m.SessionName, &m.Question, &m.Answer, &m.Timestamp); err != nil {
			return nil, err
		}
		// an error string is not an answer worth finding
		if (Exchange{Answer: m.Answer}).Failed() {
			if !strings.Contains(strings.ToLower(m.Question), queryLower) {
				continue
			}
			m.Answer = ""
		}

		m.Preview = preview(m.Question, m.Answer, queryLower)
		matches = append(matches, m)
		if limit > 0 && len(matches) == limit {
			break
		}
	}

	return matches, rows.Err()
}

// preview returns the field containing the match, cut to previewLength.
func preview(question, answer, queryLower string) string {
	text := question
	if !strings.Contains(strings.ToLower(question), queryLower) && answer != "" {
		text = answer
	}

	text = strings.ReplaceAll(text, "\n", " ")
	if runes := []rune(text); len(runes) > previewLength {
		text = string(runes[:previewLength]) + "..."
	}
	return text
}

// GenerateSessionName generates a session name from the first question
func GenerateSessionName(firstQuestion string) string {
	name := strings.TrimSpace(firstQuestion)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")

	if runes := []rune(name); len(runes) > 30 {
		name = strings.TrimSpace(string(runes[:30])) + "..."
	}

	if name == "" {
		return "Session " + time.Now().Format("Jan 2, 3:04 PM")
	}
	return name
}
