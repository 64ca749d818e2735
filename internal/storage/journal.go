package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome команды в журнале.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// Entry - одна принятая сервером команда.
type Entry struct {
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
	Session  string    `json:"session"`
	Username string    `json:"username"`
	Command  string    `json:"command"`
	Payload  string    `json:"payload"`
	Outcome  string    `json:"outcome"`
	Detail   string    `json:"detail,omitempty"`
}

// Journal - журнал команд в SQLite. Только для аудита и отладки:
// состояние мира из него не восстанавливается.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	at         INTEGER NOT NULL,
	session    TEXT    NOT NULL,
	username   TEXT    NOT NULL,
	command    TEXT    NOT NULL,
	payload    TEXT    NOT NULL,
	outcome    TEXT    NOT NULL,
	detail     TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS commands_username ON commands (username);
`

// Open открывает (или создает) журнал по пути.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close освобождает соединение.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append пишет запись в конец журнала.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Command == "" || e.Outcome == "" {
		return errors.New("command and outcome are required")
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
INSERT INTO commands (at, session, username, command, payload, outcome, detail)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		e.At.UTC().UnixMilli(),
		e.Session,
		e.Username,
		e.Command,
		e.Payload,
		e.Outcome,
		e.Detail,
	)
	if err != nil {
		return fmt.Errorf("append command: %w", err)
	}
	return nil
}

// Recent возвращает последние записи, новые первыми.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be greater than zero")
	}

	rows, err := j.db.QueryContext(ctx, `
SELECT id, at, session, username, command, payload, outcome, detail
FROM commands
ORDER BY id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.ID, &at, &e.Session, &e.Username, &e.Command, &e.Payload, &e.Outcome, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		e.At = time.UnixMilli(at).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}
	return entries, nil
}
