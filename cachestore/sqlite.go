package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

//////////////////////////////////////////////////

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS lookup_cache (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLite is a Cache in a single-file SQLite database.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
	maxAge time.Duration
}

// OpenSQLite opens (creating if needed) the cache database at path. Entries
// older than maxAge are treated as misses; a zero maxAge keeps them forever.
func OpenSQLite(path string, maxAge time.Duration, logger *slog.Logger) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database %s: %w", path, err)
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &SQLite{db: db, logger: logger, maxAge: maxAge}, nil
}

func (s *SQLite) Get(ctx context.Context, key youtube.CacheKey) ([]byte, bool) {
	var (
		value     []byte
		updatedAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM lookup_cache WHERE key = ?`, key.String(),
	).Scan(&value, &updatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logStoreError(ctx, s.logger, "sqlite", "get", key, err)
		}
		return nil, false
	}

	if expired(updatedAt, s.maxAge, time.Now()) {
		return nil, false
	}

	return value, true
}

func (s *SQLite) Put(ctx context.Context, key youtube.CacheKey, value []byte) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lookup_cache (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key.String(), value, time.Now().UnixMilli(),
	)
	if err != nil {
		logStoreError(ctx, s.logger, "sqlite", "put", key, err)
	}
}

// Len returns the number of stored entries, expired ones included.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookup_cache`).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

// Prune deletes entries older than the configured maximum age.
func (s *SQLite) Prune(ctx context.Context) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-s.maxAge).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM lookup_cache WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
