package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/rubpy/crawly-channel-youtube/xmlapi"
	"github.com/rubpy/crawly/clog"
	"github.com/rubpy/crawly/csync"
)

//////////////////////////////////////////////////

// Resolver turns user-supplied channel identifiers into canonical, validated
// channel references. Remote lookups of one resolution run sequentially; a
// Resolver is safe for concurrent use.
type Resolver struct {
	logger  *slog.Logger
	lookup  Lookup
	cache   Cache
	limiter *rate.Limiter

	settings csync.Value[ResolverSettings]
}

func NewResolver(opts ...ConfigOption) (*Resolver, error) {
	var cfg config

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	r, err := buildResolverFromConfig(&cfg)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Resolver) Log(ctx context.Context, lp clog.Params) {
	clog.WithParams(r.logger, ctx, lp)
}

//////////////////////////////////////////////////

// Classify is the package-level Classify, with the configured platform as
// fallback.
func (r *Resolver) Classify(raw string) Reference {
	return Classify(raw, r.loadSettings().Platform)
}

// Resolve classifies raw and normalizes the result. When the remote service
// has no match, the unvalidated classification is returned. A non-nil error
// is a *ServiceError or wraps OrphanedVideo; the classified reference is
// returned alongside it.
func (r *Resolver) Resolve(ctx context.Context, raw string, fallbackPlatform string) (Reference, error) {
	if fallbackPlatform == "" {
		fallbackPlatform = r.loadSettings().Platform
	}

	ref := Classify(raw, fallbackPlatform)

	normalized, ok, err := r.Normalize(ctx, ref)
	if err != nil {
		return ref, err
	}

	if !ok {
		r.Log(ctx, clog.Params{
			Message: "resolve: no remote match, keeping unvalidated reference",
			Level:   slog.LevelInfo,

			Values: clog.ParamGroup{
				"input":     raw,
				"reference": ref.String(),
			},
		})

		return ref, nil
	}

	return normalized, nil
}

// Channel looks up a channel by its ID, through the cache.
func (r *Resolver) Channel(ctx context.Context, channelID string) (*Channel, error) {
	return r.channelByID(ctx, channelID, normalizeHints{})
}

// RefreshChannel looks up a channel by its ID remotely (unless offline),
// replacing the cached record.
func (r *Resolver) RefreshChannel(ctx context.Context, channelID string) (*Channel, error) {
	if !IsValidChannelID(channelID) {
		return nil, ChannelNotFound
	}

	key := NewCacheKey(LookupChannelByID, channelID)
	return cachedLookup(ctx, r, key, true, ChannelNotFound, func(ctx context.Context) (*Channel, error) {
		return r.lookup.ChannelByID(ctx, channelID)
	})
}

//////////////////////////////////////////////////

type normalizeHints struct {
	channel *Channel
	video   *Video
}

type NormalizeOption func(hints *normalizeHints)

// WithKnownChannel supplies a previously fetched channel record; it answers
// any lookup it matches instead of a remote call.
func WithKnownChannel(ch *Channel) NormalizeOption {
	return func(hints *normalizeHints) {
		hints.channel = ch
	}
}

// WithKnownVideo supplies a previously fetched video record.
func WithKnownVideo(v *Video) NormalizeOption {
	return func(hints *normalizeHints) {
		hints.video = v
	}
}

// Normalize resolves ref to a validated RawID reference, using at most three
// remote lookups (channel, video, channel of the video).
//
// References that are already validated, or that cannot be resolved remotely
// (other platform, empty or path-like value), are returned unchanged with ok
// set and no lookup performed. ok is false if the remote service has no
// match, in which case callers keep the unvalidated reference. Service
// failures are returned as a *ServiceError, never as "no match".
func (r *Resolver) Normalize(ctx context.Context, ref Reference, opts ...NormalizeOption) (normalized Reference, ok bool, err error) {
	if ref.Validated() || ref.value == "" || strings.Contains(ref.value, "/") || ref.platform != Platform {
		return ref, true, nil
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err = ctx.Err(); err != nil {
			err = &ServiceError{Lookup: firstLookup(ref), ID: ref.value, Err: err}
			return
		}
	}

	var hints normalizeHints
	for _, opt := range opts {
		opt(&hints)
	}

	lp := clog.Params{
		Message: "normalize",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"reference": ref.String(),
		},
	}

	normalized, ok, err = r.resolveChannelOrVideo(ctx, ref, hints)
	if err == nil {
		lp.Set("ok", ok)
		if ok {
			lp.Set("channelID", normalized.value)
		}
	} else {
		lp.Level = slog.LevelWarn
	}

	lp.Err = err
	r.Log(ctx, lp)

	return
}

func (r *Resolver) resolveChannelOrVideo(ctx context.Context, ref Reference, hints normalizeHints) (Reference, bool, error) {
	// Something shaped like a video ID is unlikely to also be a channel ID, so
	// known video references skip the channel lookup.
	if ref.kind != KindVideoDerived {
		ch, err := r.lookupChannel(ctx, ref, hints)
		if err == nil {
			return validatedReference(ch), true, nil
		}
		if !errors.Is(err, NotFound) {
			return Reference{}, false, err
		}
	}

	if !xmlapi.IsValidVideoID(ref.value) {
		return Reference{}, false, nil
	}

	v, err := r.video(ctx, ref.value, hints)
	if err != nil {
		if errors.Is(err, NotFound) {
			return Reference{}, false, nil
		}

		return Reference{}, false, err
	}

	ch, err := r.channelByID(ctx, v.ChannelID, hints)
	if err != nil {
		if errors.Is(err, NotFound) {
			if r.loadSettings().Offline {
				return Reference{}, false, nil
			}

			return Reference{}, false, fmt.Errorf("%w: video %q, channel %q", OrphanedVideo, v.ID, v.ChannelID)
		}

		return Reference{}, false, err
	}

	return validatedReference(ch), true, nil
}

// firstLookup is the first lookup resolveChannelOrVideo makes for ref.
func firstLookup(ref Reference) LookupKind {
	switch ref.kind {
	case KindHumanHandle:
		return LookupChannelByHandle
	case KindVideoDerived:
		return LookupVideoByID
	}

	return LookupChannelByID
}

// lookupChannel looks ref up as a channel: by handle for handle references,
// by ID otherwise. Values that cannot be a handle/ID are not found without a
// remote call.
func (r *Resolver) lookupChannel(ctx context.Context, ref Reference, hints normalizeHints) (*Channel, error) {
	if ref.kind == KindHumanHandle {
		return r.channelByHandle(ctx, ref.value, hints)
	}

	return r.channelByID(ctx, ref.value, hints)
}

//////////////////////////////////////////////////

func (r *Resolver) channelByID(ctx context.Context, channelID string, hints normalizeHints) (*Channel, error) {
	if hints.channel != nil && hints.channel.ID == channelID {
		ch := *hints.channel
		return &ch, nil
	}

	if !xmlapi.IsValidChannelID(channelID) {
		return nil, ChannelNotFound
	}

	key := NewCacheKey(LookupChannelByID, channelID)
	return cachedLookup(ctx, r, key, false, ChannelNotFound, func(ctx context.Context) (*Channel, error) {
		return r.lookup.ChannelByID(ctx, channelID)
	})
}

func (r *Resolver) channelByHandle(ctx context.Context, handle string, hints normalizeHints) (*Channel, error) {
	if hints.channel != nil && hints.channel.Handle != "" && strings.EqualFold(hints.channel.Handle, handle) {
		ch := *hints.channel
		return &ch, nil
	}

	if !xmlapi.IsValidHandle(handle) {
		return nil, ChannelNotFound
	}

	key := NewCacheKey(LookupChannelByHandle, handle)
	return cachedLookup(ctx, r, key, false, ChannelNotFound, func(ctx context.Context) (*Channel, error) {
		ch, err := r.lookup.ChannelByHandle(ctx, handle)
		if err == nil && ch != nil && ch.ID != "" {
			// Fetched records also answer the by-ID lookup.
			storeRecord(ctx, r, NewCacheKey(LookupChannelByID, ch.ID), ch)
		}

		return ch, err
	})
}

func (r *Resolver) video(ctx context.Context, videoID string, hints normalizeHints) (*Video, error) {
	if hints.video != nil && hints.video.ID == videoID {
		v := *hints.video
		return &v, nil
	}

	key := NewCacheKey(LookupVideoByID, videoID)
	return cachedLookup(ctx, r, key, false, VideoNotFound, func(ctx context.Context) (*Video, error) {
		return r.lookup.VideoByID(ctx, videoID)
	})
}

// cachedLookup answers key from the cache, or else (unless offline) with one
// call to fetch, whose result is cached.
//
// With refresh set, a cached entry is only used when offline.
func cachedLookup[T any](ctx context.Context, r *Resolver, key CacheKey, refresh bool, notFound error, fetch func(ctx context.Context) (*T, error)) (*T, error) {
	settings := r.loadSettings()

	if value, ok := r.cache.Get(ctx, key); ok && (!refresh || settings.Offline) {
		if record, ok := decodeCacheEntry[T](value); ok {
			if record == nil {
				return nil, notFound
			}

			return record, nil
		}
	}

	if settings.Offline {
		return nil, notFound
	}

	if r.lookup == nil {
		return nil, &ServiceError{Lookup: key.Lookup, ID: key.ID, Err: NilLookup}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, &ServiceError{Lookup: key.Lookup, ID: key.ID, Err: err}
		}
	}

	lp := clog.Params{
		Message: "lookup",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"key": key.String(),
		},
	}

	record, err := fetch(ctx)
	if err == nil && record == nil {
		err = notFound
	}
	err = classifyLookupError(key.Lookup, key.ID, err)

	switch {
	case err == nil:
		lp.Set("found", true)
		storeRecord(ctx, r, key, record)

	case errors.Is(err, NotFound):
		lp.Set("found", false)
		if settings.CacheNotFound {
			storeRecord(ctx, r, key, (*T)(nil))
		}
		record, err = nil, notFound

	default:
		lp.Err = err
		lp.Level = slog.LevelWarn
		record = nil
	}

	r.Log(ctx, lp)

	return record, err
}

// storeRecord caches record (nil meaning "not found") under key.
func storeRecord[T any](ctx context.Context, r *Resolver, key CacheKey, record *T) {
	value, err := encodeCacheEntry(record)
	if err != nil {
		r.Log(ctx, clog.Params{
			Message: "cache store",
			Level:   slog.LevelError,
			Err:     err,

			Values: clog.ParamGroup{
				"key": key.String(),
			},
		})

		return
	}

	r.cache.Put(ctx, key, value)
}
