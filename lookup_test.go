package youtube

import (
	"context"
	"strings"
)

// fakeLookup answers from fixed records and records every call it gets (as
// the cache key string the call corresponds to).
type fakeLookup struct {
	channels map[string]*Channel // by ID
	handles  map[string]string   // lower-cased handle -> channel ID
	videos   map[string]*Video   // by ID

	err   error // returned by every call if set
	calls []string
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		channels: map[string]*Channel{},
		handles:  map[string]string{},
		videos:   map[string]*Video{},
	}
}

func (f *fakeLookup) addChannel(ch Channel) *fakeLookup {
	f.channels[ch.ID] = &ch
	if ch.Handle != "" {
		f.handles[strings.ToLower(ch.Handle)] = ch.ID
	}

	return f
}

func (f *fakeLookup) addVideo(v Video) *fakeLookup {
	f.videos[v.ID] = &v
	return f
}

func (f *fakeLookup) ChannelByID(_ context.Context, channelID string) (*Channel, error) {
	f.calls = append(f.calls, NewCacheKey(LookupChannelByID, channelID).String())
	if f.err != nil {
		return nil, f.err
	}

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, ChannelNotFound
	}

	c := *ch
	return &c, nil
}

func (f *fakeLookup) ChannelByHandle(ctx context.Context, handle string) (*Channel, error) {
	f.calls = append(f.calls, NewCacheKey(LookupChannelByHandle, handle).String())
	if f.err != nil {
		return nil, f.err
	}

	id, ok := f.handles[strings.ToLower(handle)]
	if !ok {
		return nil, ChannelNotFound
	}

	c := *f.channels[id]
	return &c, nil
}

func (f *fakeLookup) VideoByID(_ context.Context, videoID string) (*Video, error) {
	f.calls = append(f.calls, NewCacheKey(LookupVideoByID, videoID).String())
	if f.err != nil {
		return nil, f.err
	}

	v, ok := f.videos[videoID]
	if !ok {
		return nil, VideoNotFound
	}

	c := *v
	return &c, nil
}
