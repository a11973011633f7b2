package assets

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const assetsSchema = `CREATE TABLE IF NOT EXISTS assets (
	path         TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	data         BLOB NOT NULL,
	created_at   INTEGER NOT NULL
)`

// SQLiteSink stores blobs in an assets table. It is meant for local
// development and tests where no object store is available.
type SQLiteSink struct {
	db      *sql.DB
	baseURL string
}

// OpenSQLiteSink opens (or creates) the database at path. Use ":memory:" for
// a throwaway store. Returned URLs are baseURL followed by the asset path.
func OpenSQLiteSink(path, baseURL string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening asset db: %w", err)
	}
	// A pool of in-memory connections would see separate databases.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 10000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("asset db %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(assetsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating assets table: %w", err)
	}
	return &SQLiteSink{db: db, baseURL: baseURL}, nil
}

// Upload implements Sink. Re-uploading a path replaces the stored blob.
func (s *SQLiteSink) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (path, content_type, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET content_type = excluded.content_type, data = excluded.data, created_at = excluded.created_at`,
		path, contentType, data, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("storing asset %s: %w", path, err)
	}
	return s.baseURL + path, nil
}

// Get returns a stored blob and its content type.
func (s *SQLiteSink) Get(ctx context.Context, path string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, content_type FROM assets WHERE path = ?`, path).
		Scan(&data, &contentType)
	if err != nil {
		return nil, "", fmt.Errorf("loading asset %s: %w", path, err)
	}
	return data, contentType, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
