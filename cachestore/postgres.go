package cachestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

//////////////////////////////////////////////////

const postgresSchema = `
CREATE TABLE IF NOT EXISTS lookup_cache (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres is a Cache in a PostgreSQL table, shareable between processes. A
// Postgres with a nil pool is a cache that never hits.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	maxAge time.Duration
}

func NewPostgres(pool *pgxpool.Pool, maxAge time.Duration, logger *slog.Logger) *Postgres {
	return &Postgres{pool: pool, maxAge: maxAge, logger: logger}
}

// ConnectPostgres opens a pool to databaseURL and creates the cache table.
func ConnectPostgres(ctx context.Context, databaseURL string, maxAge time.Duration, logger *slog.Logger) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return NewPostgres(pool, maxAge, logger), nil
}

func (s *Postgres) Get(ctx context.Context, key youtube.CacheKey) ([]byte, bool) {
	if s.pool == nil {
		return nil, false
	}

	var (
		value     []byte
		updatedAt time.Time
	)

	err := s.pool.QueryRow(ctx,
		`SELECT value, updated_at FROM lookup_cache WHERE key = $1`, key.String(),
	).Scan(&value, &updatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logStoreError(ctx, s.logger, "postgres", "get", key, err)
		}
		return nil, false
	}

	if expired(updatedAt.UnixMilli(), s.maxAge, time.Now()) {
		return nil, false
	}

	return value, true
}

func (s *Postgres) Put(ctx context.Context, key youtube.CacheKey, value []byte) {
	if s.pool == nil {
		return
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO lookup_cache (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key.String(), value,
	)
	if err != nil {
		logStoreError(ctx, s.logger, "postgres", "put", key, err)
	}
}

func (s *Postgres) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}

	return nil
}
