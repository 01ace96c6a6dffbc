package cachestore

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

func openTestSQLite(t *testing.T, maxAge time.Duration) *SQLite {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache", "lookups.db"), maxAge, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSQLiteGetPut(t *testing.T) {
	s := openTestSQLite(t, 0)
	ctx := context.Background()
	key := youtube.NewCacheKey(youtube.LookupChannelByHandle, "@LofiGirl")

	_, ok := s.Get(ctx, key)
	assert.False(t, ok)

	s.Put(ctx, key, []byte(`{"found":false}`))
	value, ok := s.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"found":false}`, string(value))

	s.Put(ctx, key, []byte(`{"found":true}`))
	value, ok = s.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"found":true}`, string(value))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")
	ctx := context.Background()
	key := youtube.NewCacheKey(youtube.LookupVideoByID, "jfKfPfyJRdk")

	s, err := OpenSQLite(path, 0, nil)
	require.NoError(t, err)
	s.Put(ctx, key, []byte("v"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, 0, nil)
	require.NoError(t, err)
	defer s.Close()

	value, ok := s.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "v", string(value))
}

func TestSQLiteMaxAge(t *testing.T) {
	s := openTestSQLite(t, time.Hour)
	ctx := context.Background()
	key := youtube.NewCacheKey(youtube.LookupChannelByID, "UCSJ4gkVC6NrvII8umztf0Ow")

	s.Put(ctx, key, []byte("v"))
	_, err := s.db.ExecContext(ctx, `UPDATE lookup_cache SET updated_at = ?`,
		time.Now().Add(-2*time.Hour).UnixMilli())
	require.NoError(t, err)

	_, ok := s.Get(ctx, key)
	assert.False(t, ok)

	pruned, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)
}

func TestSQLiteConcurrentUse(t *testing.T) {
	s := openTestSQLite(t, 0)
	ctx := context.Background()
	key := youtube.NewCacheKey(youtube.LookupChannelByID, "UCSJ4gkVC6NrvII8umztf0Ow")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s.Put(ctx, key, []byte("v"))
			s.Get(ctx, key)
		}()
	}
	wg.Wait()

	_, ok := s.Get(ctx, key)
	assert.True(t, ok)
}

func TestResolverWithSQLite(t *testing.T) {
	s := openTestSQLite(t, 0)
	ctx := context.Background()

	require.NoError(t, youtube.PrimeChannel(ctx, s, &youtube.Channel{
		ID:     "UCSJ4gkVC6NrvII8umztf0Ow",
		Handle: "lofigirl",
		Title:  "Lofi Girl",
	}))

	settings := youtube.DefaultResolverSettings
	settings.Offline = true

	r, err := youtube.NewResolver(youtube.WithCache(s), youtube.WithSettings(settings))
	require.NoError(t, err)

	ref, err := r.Resolve(ctx, "https://www.youtube.com/@LofiGirl", "")
	require.NoError(t, err)
	assert.True(t, ref.Validated())
	assert.Equal(t, youtube.KindRawID, ref.Kind())
	assert.Equal(t, "UCSJ4gkVC6NrvII8umztf0Ow", ref.Value())
}

func TestNilClientStores(t *testing.T) {
	ctx := context.Background()
	key := youtube.NewCacheKey(youtube.LookupChannelByID, "UCSJ4gkVC6NrvII8umztf0Ow")

	for name, s := range map[string]Store{
		"redis":    NewRedis(nil, time.Minute, nil),
		"postgres": NewPostgres(nil, time.Minute, nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() { s.Put(ctx, key, []byte("v")) })

			_, ok := s.Get(ctx, key)
			assert.False(t, ok)
			assert.NoError(t, s.Close())
		})
	}
}

func TestDialRedisInvalidURL(t *testing.T) {
	_, err := DialRedis(context.Background(), "not-a-redis-url", time.Minute, nil)
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, expired(now.Add(-time.Hour).UnixMilli(), 0, now))
	assert.False(t, expired(now.Add(-time.Minute).UnixMilli(), time.Hour, now))
	assert.True(t, expired(now.Add(-2*time.Hour).UnixMilli(), time.Hour, now))
}

func TestSQLiteLogsStoreErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "lookups.db"), 0, logger)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()
	key := youtube.NewCacheKey(youtube.LookupChannelByID, "UCSJ4gkVC6NrvII8umztf0Ow")

	_, ok := s.Get(ctx, key)
	assert.False(t, ok)
	assert.NotPanics(t, func() { s.Put(ctx, key, []byte("v")) })

	out := buf.String()
	assert.Contains(t, out, "sqlite: get failed")
	assert.Contains(t, out, "sqlite: put failed")
	assert.Contains(t, out, "channel-id:UCSJ4gkVC6NrvII8umztf0Ow")
	assert.Contains(t, out, "level=WARN")
}
