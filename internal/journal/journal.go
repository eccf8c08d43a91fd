// Package journal persists dispatched actions in an append-only SQLite
// log. Replaying the log through the reducer rebuilds the state.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nibzard/todoflow/internal/todo"
)

// Entry is one stored action.
type Entry struct {
	Seq         int64
	SessionID   string
	Type        todo.ActionType
	PayloadJSON string
	CreatedAt   time.Time
}

// Session summarizes the actions written by one Open/Close cycle.
type Session struct {
	ID        string
	Actions   int
	FirstSeq  int64
	LastSeq   int64
	StartedAt time.Time
	EndedAt   time.Time
}

// Journal is an open action log.
type Journal struct {
	db        *sql.DB
	path      string
	sessionID string
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
}

// Open opens (creating if needed) the journal at path and applies any
// pending migrations. Every Open starts a new session.
func Open(ctx context.Context, path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	if err := runMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Journal{
		db:        db,
		path:      path,
		sessionID: uuid.NewString(),
	}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// SessionID returns the id stamped on actions appended by this Journal.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Append stores a and returns the stored entry.
func (j *Journal) Append(ctx context.Context, a todo.Action) (Entry, error) {
	payload, err := todo.MarshalAction(a)
	if err != nil {
		return Entry{}, fmt.Errorf("append action: %w", err)
	}

	e := Entry{
		SessionID:   j.sessionID,
		Type:        a.Type(),
		PayloadJSON: string(payload),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	const q = `INSERT INTO actions (session_id, type, payload_json, created_at) VALUES (?, ?, ?, ?)`
	res, err := j.db.ExecContext(ctx, q, e.SessionID, string(e.Type), e.PayloadJSON, e.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("append action: %w", err)
	}
	if e.Seq, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("append action: %w", err)
	}
	return e, nil
}

// Entries returns the entries with seq greater than sinceSeq, in
// ascending seq order.
func (j *Journal) Entries(ctx context.Context, sinceSeq int64) ([]Entry, error) {
	const q = `SELECT seq, session_id, type, payload_json, created_at
FROM actions
WHERE seq > ?
ORDER BY seq ASC`

	rows, err := j.db.QueryContext(ctx, q, sinceSeq)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var typ string
		var createdAt int64
		if err := rows.Scan(&e.Seq, &e.SessionID, &typ, &e.PayloadJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		e.Type = todo.ActionType(typ)
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Replay decodes every stored action in order and passes it to fn.
// Replay stops at the first error from decoding or from fn.
func (j *Journal) Replay(ctx context.Context, fn func(Entry, todo.Action) error) error {
	entries, err := j.Entries(ctx, 0)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := todo.DecodePayload(e.Type, []byte(e.PayloadJSON))
		if err != nil {
			return fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		if err := fn(e, a); err != nil {
			return fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
	}
	return nil
}

// Count returns the number of stored actions.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return n, nil
}

// Sessions returns one summary per session, oldest first.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	const q = `SELECT session_id, COUNT(*), MIN(seq), MAX(seq), MIN(created_at), MAX(created_at)
FROM actions
GROUP BY session_id
ORDER BY MIN(seq) ASC`

	rows, err := j.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var started, ended int64
		if err := rows.Scan(&s.ID, &s.Actions, &s.FirstSeq, &s.LastSeq, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt = time.UnixMilli(started).UTC()
		s.EndedAt = time.UnixMilli(ended).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
