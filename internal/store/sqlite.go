package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
)

// SQLiteStore persists sessions as JSON documents in a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		payload TEXT NOT NULL,
		last_active INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Get loads and decodes a session.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*chat.Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	var session chat.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

// Put upserts the session document.
func (s *SQLiteStore) Put(ctx context.Context, session *chat.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, mode, payload, last_active, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			payload = excluded.payload,
			last_active = excluded.last_active,
			updated_at = excluded.updated_at`,
		session.ID, string(session.Mode), string(payload), session.LastActive.UnixNano(), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", session.ID, err)
	}
	return nil
}

// Delete removes a session row.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// SweepOlderThan deletes sessions idle for longer than ttl.
func (s *SQLiteStore) SweepOlderThan(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_active < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep rows affected: %w", err)
	}
	return int(n), nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
