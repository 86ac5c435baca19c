package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS site_snapshot (
	bucket TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	payload BLOB NOT NULL
)`

// SQLite stores snapshots in a local database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		path = "salonsite.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save upserts every bucket of s in one transaction.
func (s *SQLite) Save(ctx context.Context, snap Snapshot) error {
	rows, err := encodeRows(snap.Dataset)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range rows {
		query, args, err := upsert(sq.Question, snap.RunID, snap.GeneratedAt, r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", r.bucket, err)
		}
	}
	return tx.Commit()
}

// Load returns the last saved snapshot.
func (s *SQLite) Load(ctx context.Context) (*Snapshot, error) {
	query, args, err := selectAll(sq.Question)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var acc scanned
	for rows.Next() {
		var bucket, runID, generatedAt string
		var payload []byte
		if err := rows.Scan(&bucket, &runID, &generatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := acc.add(bucket, runID, generatedAt, payload); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return acc.result()
}

func (s *SQLite) Close() error { return s.db.Close() }
