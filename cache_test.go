package youtube

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "channel-id:UCabc123", NewCacheKey(LookupChannelByID, "UCabc123").String())
	assert.Equal(t, "channel-handle:lofigirl", NewCacheKey(LookupChannelByHandle, "@LofiGirl").String())
	assert.Equal(t, "video-id:dQw4w9WgXcQ", NewCacheKey(LookupVideoByID, "dQw4w9WgXcQ").String())
}

func TestCacheEntryRoundTrip(t *testing.T) {
	value, err := encodeCacheEntry(&testChannel)
	require.NoError(t, err)

	ch, ok := decodeCacheEntry[Channel](value)
	require.True(t, ok)
	assert.Equal(t, testChannel, *ch)

	value, err = encodeCacheEntry((*Video)(nil))
	require.NoError(t, err)

	v, ok := decodeCacheEntry[Video](value)
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = decodeCacheEntry[Video]([]byte("garbage"))
	assert.False(t, ok)
}

func TestUndecodableEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	cache.Put(ctx, NewCacheKey(LookupChannelByID, testChannelID), []byte("{not json"))

	lookup := newFakeLookup().addChannel(testChannel)
	r := newTestResolver(t, lookup, WithCache(cache))

	ch, err := r.Channel(ctx, testChannelID)
	require.NoError(t, err)
	assert.Equal(t, testChannel.Title, ch.Title)
	assert.Len(t, lookup.calls, 1)
}

func TestMemoryCacheConcurrentUse(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			key := NewCacheKey(LookupChannelByID, fmt.Sprintf("UCchannel%03d", i%4))
			cache.Put(ctx, key, []byte(fmt.Sprint(i)))
			_, ok := cache.Get(ctx, key)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()

	_, ok := cache.Get(ctx, NewCacheKey(LookupChannelByID, "UCchannel000"))
	assert.True(t, ok)
	_, ok = cache.Get(ctx, NewCacheKey(LookupVideoByID, "UCchannel000"))
	assert.False(t, ok)
}
