// Package store keeps named snapshots of planning sessions in a local SQLite
// database, so a session can be parked and restored independently of its
// working file. Snapshot bodies use the session file encoding.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
)

// Sentinel errors for the snapshot store.
var (
	// ErrNotFound indicates no snapshot exists under the requested name.
	ErrNotFound = errors.New("snapshot not found")
	// ErrEmptyName indicates a snapshot operation without a name.
	ErrEmptyName = errors.New("snapshot name is empty")
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    name           TEXT PRIMARY KEY,
    goal           TEXT NOT NULL DEFAULT '',
    item_count     INTEGER NOT NULL,
    resolved_count INTEGER NOT NULL,
    question_count INTEGER NOT NULL,
    body           TEXT NOT NULL,
    saved_at       TEXT NOT NULL
);
`

// Snapshot describes one stored session without its body.
type Snapshot struct {
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	Items     int       `json:"items"`
	Resolved  int       `json:"resolved"`
	Questions int       `json:"questions"`
	SavedAt   time.Time `json:"saved_at"`
}

// SQLiteStore stores session snapshots in SQLite in WAL mode.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) the database at dbPath, creating its
// parent directory if needed. A nil logger discards log output.
func NewSQLiteStore(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// SQLite has a single writer; one pooled connection keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	logger.Debug("snapshot store opened", "path", dbPath)
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

// Save stores s under name, replacing any earlier snapshot with that name.
func (st *SQLiteStore) Save(ctx context.Context, name string, s session.Session) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, ErrEmptyName
	}
	body, err := sessionfile.Marshal(s)
	if err != nil {
		return Snapshot{}, fmt.Errorf("store: save %q: %w", name, err)
	}

	resolved, total := s.Progress()
	snap := Snapshot{
		Name:      name,
		Goal:      s.Goal,
		Items:     len(s.Items),
		Resolved:  resolved,
		Questions: total,
		SavedAt:   st.now().UTC(),
	}

	const q = `
		INSERT INTO snapshots (name, goal, item_count, resolved_count, question_count, body, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			goal           = excluded.goal,
			item_count     = excluded.item_count,
			resolved_count = excluded.resolved_count,
			question_count = excluded.question_count,
			body           = excluded.body,
			saved_at       = excluded.saved_at`
	if _, err := st.db.ExecContext(ctx, q, snap.Name, snap.Goal, snap.Items, snap.Resolved,
		snap.Questions, string(body), snap.SavedAt.Format(time.RFC3339Nano)); err != nil {
		return Snapshot{}, fmt.Errorf("store: save %q: %w", name, err)
	}
	st.logger.Debug("snapshot saved", "name", name, "items", snap.Items, "resolved", snap.Resolved)
	return snap, nil
}

// Load returns the session stored under name.
func (st *SQLiteStore) Load(ctx context.Context, name string) (session.Session, error) {
	var body string
	err := st.db.QueryRowContext(ctx, "SELECT body FROM snapshots WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, fmt.Errorf("store: load %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("store: load %q: %w", name, err)
	}
	s, err := sessionfile.Parse([]byte(body))
	if err != nil {
		return session.Session{}, fmt.Errorf("store: load %q: %w", name, err)
	}
	return s, nil
}

// List returns every snapshot, most recently saved first.
func (st *SQLiteStore) List(ctx context.Context) ([]Snapshot, error) {
	const q = `
		SELECT name, goal, item_count, resolved_count, question_count, saved_at
		FROM snapshots ORDER BY saved_at DESC, name`
	rows, err := st.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	defer rows.Close()

	var result []Snapshot
	for rows.Next() {
		var s Snapshot
		var ts string
		if err := rows.Scan(&s.Name, &s.Goal, &s.Items, &s.Resolved, &s.Questions, &ts); err != nil {
			return nil, fmt.Errorf("store: scan snapshot: %w", err)
		}
		savedAt, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("store: parse snapshot timestamp: %w", err)
		}
		s.SavedAt = savedAt
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate snapshots: %w", err)
	}
	return result, nil
}

// Delete removes the snapshot stored under name.
func (st *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := st.db.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("store: delete %q: %w", name, ErrNotFound)
	}
	st.logger.Debug("snapshot deleted", "name", name)
	return nil
}

// Close closes the underlying database.
func (st *SQLiteStore) Close() error {
	return st.db.Close()
}
