package telemetry

// #region imports
import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS telemetry_events (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	kind       TEXT NOT NULL,
	at         TEXT NOT NULL,
	task       TEXT,
	seq        INTEGER,
	value      REAL,
	detail     TEXT
);

CREATE INDEX IF NOT EXISTS idx_telemetry_events_session
ON telemetry_events(session_id, at);

CREATE INDEX IF NOT EXISTS idx_telemetry_events_kind
ON telemetry_events(kind, at);
`

// #endregion schema

// #region store

// Store persists telemetry events in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the telemetry database and runs
// migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate telemetry db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// #endregion store

// #region insert

// InsertBatch writes a batch of events in one transaction.
func (s *Store) InsertBatch(session string, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO telemetry_events (id, session_id, kind, at, task, seq, value, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err := stmt.Exec(
			ev.ID,
			session,
			string(ev.Kind),
			ev.At.Format(time.RFC3339Nano),
			nullIfEmpty(ev.Task),
			ev.Seq,
			ev.Value,
			nullIfEmpty(ev.Detail),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert event %s: %w", ev.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion insert

// #region query

// Recent returns the most recent events, newest first, optionally filtered
// by kind (empty = all kinds).
func (s *Store) Recent(limit int, kind Kind) ([]Event, error) {
	query := `
		SELECT id, kind, at, COALESCE(task, ''), seq, value, COALESCE(detail, '')
		FROM telemetry_events`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var kindStr, atStr string
		if err := rows.Scan(&ev.ID, &kindStr, &atStr, &ev.Task, &ev.Seq, &ev.Value, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = Kind(kindStr)
		at, err := time.Parse(time.RFC3339Nano, atStr)
		if err != nil {
			return nil, fmt.Errorf("parse event time %q: %w", atStr, err)
		}
		ev.At = at
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountsByKind returns per-kind event counts across all sessions.
func (s *Store) CountsByKind() (map[Kind]uint64, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM telemetry_events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	out := make(map[Kind]uint64)
	for rows.Next() {
		var kindStr string
		var n uint64
		if err := rows.Scan(&kindStr, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[Kind(kindStr)] = n
	}
	return out, rows.Err()
}

// #endregion query
