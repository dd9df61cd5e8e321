package mounts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackfish212/adbfs/types"

	_ "modernc.org/sqlite"
)

// SQLiteSnapshot stores the last normalized listing in a SQLite database
// for inspection outside the file manager. Each Save replaces the previous
// snapshot; adbfs never reads it back to answer a listing.
type SQLiteSnapshot struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

func NewSQLiteSnapshot(dbPath string) (*SQLiteSnapshot, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	s := &SQLiteSnapshot{db: db, dbPath: dbPath}
	if err := s.initDB(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return s, nil
}

func (s *SQLiteSnapshot) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY,
		path TEXT NOT NULL,
		perms TEXT NOT NULL,
		links INTEGER NOT NULL,
		uid INTEGER NOT NULL,
		gid INTEGER NOT NULL,
		size INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		link_target TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entries_path ON entries(path);
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		taken_at INTEGER NOT NULL,
		entries INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSnapshot) Close() error { return s.db.Close() }

// Save replaces the stored snapshot with entries, preserving their order.
func (s *SQLiteSnapshot) Save(ctx context.Context, entries []*types.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries
		(seq, path, perms, links, uid, gid, size, modified, link_target)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		var target any
		if e.LinkTarget != "" {
			target = e.LinkTarget
		}
		if _, err := stmt.ExecContext(ctx, i, e.Filepath, e.Perms, e.Links, e.UID, e.GID, e.Size, e.Modified.Unix(), target); err != nil {
			return fmt.Errorf("insert %s: %w", e.Filepath, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, taken_at, entries) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET taken_at = excluded.taken_at, entries = excluded.entries`,
		time.Now().Unix(), len(entries)); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	slog.Debug("sqlite: snapshot saved", "path", s.dbPath, "entries", len(entries))
	return nil
}

// Entries returns the stored snapshot in its original order.
func (s *SQLiteSnapshot) Entries(ctx context.Context) ([]types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT path, perms, links, uid, gid, size, modified, link_target
		FROM entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		var e types.Entry
		var modified int64
		var target sql.NullString
		if err := rows.Scan(&e.Filepath, &e.Perms, &e.Links, &e.UID, &e.GID, &e.Size, &modified, &target); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Modified = time.Unix(modified, 0).UTC()
		e.DateTime = types.FormatDateTime(e.Modified)
		e.LinkTarget = target.String
		e.Type = types.TypeOf(e.Perms)
		e.Dirname, e.Name = splitDir(e.Filepath)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func splitDir(p string) (string, string) {
	i := len(p) - 1
	for i >= 0 && p[i] != '/' {
		i--
	}
	if i <= 0 {
		return "/", p[i+1:]
	}
	return p[:i], p[i+1:]
}
