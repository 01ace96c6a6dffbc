package cachestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

//////////////////////////////////////////////////

const redisKeyPrefix = "ytchan:"

// Redis is a Cache in a Redis server, with entries expiring after a TTL. A
// Redis with a nil client is a cache that never hits.
type Redis struct {
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}
}

// DialRedis connects to the server at redisURL (redis://...) and checks it
// answers.
func DialRedis(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedis(rdb, ttl, logger), nil
}

func redisKey(key youtube.CacheKey) string {
	return redisKeyPrefix + key.String()
}

func (s *Redis) Get(ctx context.Context, key youtube.CacheKey) ([]byte, bool) {
	if s.rdb == nil {
		return nil, false
	}

	value, err := s.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logStoreError(ctx, s.logger, "redis", "get", key, err)
		}
		return nil, false
	}

	return value, true
}

func (s *Redis) Put(ctx context.Context, key youtube.CacheKey, value []byte) {
	if s.rdb == nil {
		return
	}

	if err := s.rdb.Set(ctx, redisKey(key), value, s.ttl).Err(); err != nil {
		logStoreError(ctx, s.logger, "redis", "put", key, err)
	}
}

func (s *Redis) Close() error {
	if s.rdb == nil {
		return nil
	}

	return s.rdb.Close()
}
