// Package cachestore provides persistent youtube.Cache implementations.
//
// Every store degrades instead of failing: an error while reading is logged
// and reported as a miss, an error while writing is logged and the write is
// dropped. Lookups are then simply repeated against the remote service.
package cachestore

import (
	"context"
	"log/slog"
	"time"

	"github.com/rubpy/crawly/clog"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

//////////////////////////////////////////////////

// Store is a youtube.Cache that holds external resources.
type Store interface {
	youtube.Cache

	Close() error
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Redis)(nil)
	_ Store = (*Postgres)(nil)
)

const defaultTimeout = 3 * time.Second

func logStoreError(ctx context.Context, logger *slog.Logger, store, op string, key youtube.CacheKey, err error) {
	clog.WithParams(logger, ctx, clog.Params{
		Message: store + ": " + op + " failed",
		Level:   slog.LevelWarn,
		Err:     err,

		Values: clog.ParamGroup{
			"key": key.String(),
		},
	})
}

// expired reports whether an entry written at updatedAt (Unix milliseconds)
// is older than maxAge. A non-positive maxAge never expires.
func expired(updatedAt int64, maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return false
	}

	return now.Sub(time.UnixMilli(updatedAt)) > maxAge
}
