package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"coursebot/config"
	"coursebot/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned for operations on an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Exchange is one question and the answer the provider gave to it.
type Exchange struct {
	ID        int64
	SessionID string
	Question  string
	Answer    string
	Provider  string
	Model     string
	CreatedAt time.Time
}

// Failed reports whether the answer is a provider error string.
func (e Exchange) Failed() bool {
	return model.IsFailureText(e.Answer)
}

// HistoryStore keeps conversation history in a sqlite database. It is safe
// for concurrent use.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (or creates) history.db in dataDir.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	if err := config.EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return OpenHistoryStore(filepath.Join(dataDir, "history.db"))
}

// OpenHistoryStore opens the database at path. ":memory:" is accepted.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer at a time; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &HistoryStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (hs *HistoryStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS exchanges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id, id);
	`

	_, err := hs.db.Exec(schema)
	return err
}

// CreateSession starts a new session named after its first question.
func (hs *HistoryStore) CreateSession(ctx context.Context, firstQuestion string) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New().String(),
		Name:      GenerateSessionName(firstQuestion),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := hs.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Name, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Storage] Created session %s (%q)", session.ID, session.Name)
	}
	return session, nil
}

// Session loads a session by id.
func (hs *HistoryStore) Session(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := hs.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns all sessions, most recently updated first.
func (hs *HistoryStore) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := hs.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and its exchanges.
func (hs *HistoryStore) DeleteSession(ctx context.Context, id string) error {
	tx, err := hs.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exchanges WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return tx.Commit()
}

// AddExchange appends a question/answer pair to a session.
func (hs *HistoryStore) AddExchange(ctx context.Context, ex Exchange) (int64, error) {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	tx, err := hs.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`, ex.CreatedAt, ex.SessionID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, ex.SessionID)
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, question, answer, provider, model, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ex.SessionID, ex.Question, ex.Answer, ex.Provider, ex.Model, ex.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save exchange: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Exchanges returns the exchanges of a session in the order they happened.
func (hs *HistoryStore) Exchanges(ctx context.Context, sessionID string) ([]Exchange, error) {
	return hs.queryExchanges(ctx,
		`SELECT id, session_id, question, answer, provider, model, created_at
		FROM exchanges WHERE session_id = ? ORDER BY id`, sessionID)
}

// History renders the last maxExchanges successful exchanges of a session
// as "User: ...\nAssistant: ..." lines, oldest first. It returns "" when
// there is nothing to include.
func (hs *HistoryStore) History(ctx context.Context, sessionID string, maxExchanges int) (string, error) {
	if maxExchanges <= 0 {
		return "", nil
	}

	exchanges, err := hs.queryExchanges(ctx,
		`SELECT id, session_id, question, answer, provider, model, created_at
		FROM exchanges WHERE session_id = ? ORDER BY id DESC`, sessionID)
	if err != nil {
		return "", err
	}

	var recent []Exchange
	for _, ex := range exchanges {
		if ex.Failed() {
			continue
		}
		recent = append(recent, ex)
		if len(recent) == maxExchanges {
			break
		}
	}

	return FormatHistory(reverse(recent)), nil
}

// FormatHistory renders exchanges in prompt form.
func FormatHistory(exchanges []Exchange) string {
	lines := make([]string, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		lines = append(lines, "User: "+ex.Question, "Assistant: "+ex.Answer)
	}
	return strings.Join(lines, "\n")
}

func reverse(exchanges []Exchange) []Exchange {
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}
	return exchanges
}

func (hs *HistoryStore) queryExchanges(ctx context.Context, query string, args ...any) ([]Exchange, error) {
	rows, err := hs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var ex Exchange
		if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.Question, &ex.Answer, &ex.Provider, &ex.Model, &ex.CreatedAt); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

func (hs *HistoryStore) Close() error {
	return hs.db.Close()
}
