// Package querycache maintains a derived SQLite index over the entity
// store. The JSON cache files stay authoritative; the database is
// disposable and rebuilt wholesale after every successful sync, so UI
// queries (sessions by room, track or speaker, speakers by sort group,
// title search) never walk the full entity graph.
//
// The database runs embedded with WAL mode for concurrent readers.
package querycache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/confsched/schedsync/internal/store"
)

// DB wraps the derived-index database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the index database at path. The caller
// must Close it.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping index database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := db.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	err := db.conn.Close()
	db.conn = nil
	if err != nil {
		return fmt.Errorf("close index database: %w", err)
	}
	return nil
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY,
		conference_id INTEGER NOT NULL,
		day_id INTEGER NOT NULL,
		room_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		start TEXT NOT NULL,
		sort_key TEXT NOT NULL,
		is_generic INTEGER NOT NULL DEFAULT 0,
		is_keynote INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS session_tracks (
		session_id INTEGER NOT NULL,
		track_id INTEGER NOT NULL,
		PRIMARY KEY (session_id, track_id)
	);
	CREATE TABLE IF NOT EXISTS session_speakers (
		session_id INTEGER NOT NULL,
		speaker_id INTEGER NOT NULL,
		PRIMARY KEY (session_id, speaker_id)
	);
	CREATE TABLE IF NOT EXISTS speakers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		sort_key TEXT NOT NULL,
		sort_group TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day_id, sort_key);
	CREATE INDEX IF NOT EXISTS idx_sessions_room ON sessions(room_id, sort_key);
	CREATE INDEX IF NOT EXISTS idx_sessions_conference ON sessions(conference_id, sort_key);
	CREATE INDEX IF NOT EXISTS idx_speakers_group ON speakers(sort_group, sort_key);
	`
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create index schema: %w", err)
	}
	return nil
}

// Rebuild replaces the whole index from the store's current state in one
// transaction. Safe to call after every sync; readers see either the old
// or the new index, never a mix.
func (db *DB) Rebuild(ctx context.Context, st *store.Store) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"sessions", "session_tracks", "session_speakers", "speakers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insertSession, err := tx.PrepareContext(ctx, `
		INSERT INTO sessions (id, conference_id, day_id, room_id, title, start, sort_key, is_generic, is_keynote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare session insert: %w", err)
	}
	defer insertSession.Close()

	for _, s := range st.Sessions() {
		if _, err := insertSession.ExecContext(ctx,
			s.ID, s.ConferenceID, s.DayID, s.RoomID, s.Title,
			s.Start.String(), s.SortKey, s.IsGeneric, s.IsKeynote); err != nil {
			return fmt.Errorf("index session %d: %w", s.ID, err)
		}
		// Feed records may list the same track or speaker twice; OR IGNORE
		// keeps a duplicate from aborting the whole rebuild.
		for _, trackID := range s.TrackIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO session_tracks (session_id, track_id) VALUES (?, ?)",
				s.ID, trackID); err != nil {
				return fmt.Errorf("index session %d track %d: %w", s.ID, trackID, err)
			}
		}
		for _, speakerID := range s.PresenterIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO session_speakers (session_id, speaker_id) VALUES (?, ?)",
				s.ID, speakerID); err != nil {
				return fmt.Errorf("index session %d speaker %d: %w", s.ID, speakerID, err)
			}
		}
	}

	for _, sp := range st.Speakers() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO speakers (id, name, sort_key, sort_group) VALUES (?, ?, ?, ?)",
			sp.ID, sp.Name, sp.SortKey, sp.SortGroup); err != nil {
			return fmt.Errorf("index speaker %d: %w", sp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index rebuild: %w", err)
	}
	return nil
}

// SessionIDsForRoom returns the room's session ids in chronological order.
func (db *DB) SessionIDsForRoom(ctx context.Context, roomID int) ([]int, error) {
	return db.queryIDs(ctx,
		"SELECT id FROM sessions WHERE room_id = ? ORDER BY sort_key, id", roomID)
}

// SessionIDsForDay returns the day's session ids in chronological order.
func (db *DB) SessionIDsForDay(ctx context.Context, dayID int) ([]int, error) {
	return db.queryIDs(ctx,
		"SELECT id FROM sessions WHERE day_id = ? ORDER BY sort_key, id", dayID)
}

// SessionIDsForTrack returns the track's session ids in chronological order.
func (db *DB) SessionIDsForTrack(ctx context.Context, trackID int) ([]int, error) {
	return db.queryIDs(ctx, `
		SELECT s.id FROM sessions s
		JOIN session_tracks st ON st.session_id = s.id
		WHERE st.track_id = ? ORDER BY s.sort_key, s.id`, trackID)
}

// SessionIDsForSpeaker returns the speaker's session ids in chronological
// order.
func (db *DB) SessionIDsForSpeaker(ctx context.Context, speakerID int) ([]int, error) {
	return db.queryIDs(ctx, `
		SELECT s.id FROM sessions s
		JOIN session_speakers ss ON ss.session_id = s.id
		WHERE ss.speaker_id = ? ORDER BY s.sort_key, s.id`, speakerID)
}

// SpeakerIDsInGroup returns the sorted speaker ids of one sort group.
func (db *DB) SpeakerIDsInGroup(ctx context.Context, group string) ([]int, error) {
	return db.queryIDs(ctx,
		"SELECT id FROM speakers WHERE sort_group = ? ORDER BY sort_key, name", group)
}

// SearchSessionIDs returns ids of sessions whose title contains the query,
// case-insensitively, in chronological order.
func (db *DB) SearchSessionIDs(ctx context.Context, query string) ([]int, error) {
	return db.queryIDs(ctx,
		"SELECT id FROM sessions WHERE title LIKE ? ORDER BY sort_key, id",
		"%"+query+"%")
}

func (db *DB) queryIDs(ctx context.Context, query string, args ...any) ([]int, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index rows: %w", err)
	}
	return ids, nil
}
