package youtube

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rubpy/crawly/csync"
)

//////////////////////////////////////////////////

// Cache stores lookup results. Get and Put never fail: stores log their own
// errors, and a failed Get is a miss.
type Cache interface {
	Get(ctx context.Context, key CacheKey) (value []byte, ok bool)
	Put(ctx context.Context, key CacheKey, value []byte)
}

// CacheKey identifies a lookup result. Its string form is
// "<lookup>:<identifier>", e.g. "channel-id:UCSJ4gkVC6NrvII8umztf0Ow" or
// "channel-handle:lofigirl" (handles are case-insensitive, so lower-cased).
type CacheKey struct {
	Lookup LookupKind
	ID     string
}

func NewCacheKey(lookup LookupKind, id string) CacheKey {
	if lookup == LookupChannelByHandle {
		id = strings.ToLower(strings.TrimPrefix(id, "@"))
	}

	return CacheKey{Lookup: lookup, ID: id}
}

func (k CacheKey) String() string {
	return k.Lookup.String() + ":" + k.ID
}

// cacheEntry is the encoded form of a lookup result. Found is false for a
// remembered "not found".
type cacheEntry struct {
	Found    bool            `json:"found"`
	Record   json.RawMessage `json:"record,omitempty"`
	CachedAt time.Time       `json:"cached_at"`
}

//////////////////////////////////////////////////

// MemoryCache is a process-wide Cache, safe for concurrent use. Concurrent
// writers of one key race harmlessly (last writer wins).
type MemoryCache struct {
	entries csync.Map[string, []byte]
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	return c.entries.Load(key.String())
}

func (c *MemoryCache) Put(_ context.Context, key CacheKey, value []byte) {
	c.entries.Store(key.String(), value)
}

//////////////////////////////////////////////////

// PrimeChannel stores ch as the result of the channel lookups it answers (by
// ID, and by handle if it has one). Used to seed caches for offline use.
func PrimeChannel(ctx context.Context, cache Cache, ch *Channel) error {
	value, err := encodeCacheEntry(ch)
	if err != nil {
		return err
	}

	cache.Put(ctx, NewCacheKey(LookupChannelByID, ch.ID), value)
	if ch.Handle != "" {
		cache.Put(ctx, NewCacheKey(LookupChannelByHandle, ch.Handle), value)
	}

	return nil
}

// PrimeVideo stores v as the result of the video lookup for its ID.
func PrimeVideo(ctx context.Context, cache Cache, v *Video) error {
	value, err := encodeCacheEntry(v)
	if err != nil {
		return err
	}

	cache.Put(ctx, NewCacheKey(LookupVideoByID, v.ID), value)
	return nil
}

// encodeCacheEntry encodes a found record, or "not found" if record is nil.
func encodeCacheEntry[T any](record *T) ([]byte, error) {
	entry := cacheEntry{
		Found:    record != nil,
		CachedAt: time.Now().UTC(),
	}

	if record != nil {
		b, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		entry.Record = b
	}

	return json.Marshal(entry)
}

// decodeCacheEntry returns the cached record (nil for "not found"); ok is
// false if value cannot be decoded, which callers treat as a miss.
func decodeCacheEntry[T any](value []byte) (record *T, ok bool) {
	var entry cacheEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, false
	}

	if !entry.Found {
		return nil, true
	}

	record = new(T)
	if err := json.Unmarshal(entry.Record, record); err != nil {
		return nil, false
	}

	return record, true
}
