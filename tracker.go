package youtube

import (
	"errors"
	"log/slog"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/csync"
)

//////////////////////////////////////////////////

// Tracker is a crawler over channel references: orders normalize what the
// user gave into a canonical RawID reference, and entities keep the
// channel's record (and, with a FeedLookup, its latest uploads) current.
type Tracker struct {
	crawly.Crawler

	resolver *Resolver
	feed     *FeedLookup

	// Reference.String() of a tracked reference -> its canonical reference.
	canonical csync.Map[string, Reference]

	settings csync.Value[TrackerSettings]
}

var (
	NilResolver = errors.New("resolver is nil")

	// The remote service had no match for a tracked reference.
	UnresolvedReference = errors.New("unresolved reference")
)

type trackerConfig struct {
	logger *slog.Logger
	feed   *FeedLookup

	settings struct {
		v  TrackerSettings
		ok bool
	}
}

type TrackerOption func(cfg *trackerConfig)

func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.logger = logger
	}
}

// WithFeed enables fetching the latest uploads of tracked channels.
func WithFeed(feed *FeedLookup) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.feed = feed
	}
}

func WithTrackerSettings(settings TrackerSettings) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.settings.v = settings
		cfg.settings.ok = true
	}
}

func NewTracker(resolver *Resolver, opts ...TrackerOption) (*Tracker, error) {
	if resolver == nil {
		return nil, NilResolver
	}

	var cfg trackerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tracker{
		resolver: resolver,
		feed:     cfg.feed,
	}

	t.Crawler.SetLogger(cfg.logger)
	crawly.SetCrawlerHandlers(&t.Crawler, crawly.CrawlerHandlers{
		Order:  t.orderHandler,
		Entity: t.entityHandler,
	})

	if cfg.settings.ok {
		t.SetSettings(cfg.settings.v)
	} else {
		t.SetSettings(DefaultTrackerSettings)
	}

	return t, nil
}

//////////////////////////////////////////////////

func (t *Tracker) loadCanonical(ref Reference) (Reference, bool) {
	return t.canonical.Load(ref.Bare().String())
}

func (t *Tracker) storeCanonical(ref Reference, canonical Reference) {
	t.canonical.Store(ref.Bare().String(), canonical.Bare())
}

// canonicalReference returns the reference ref was (or is known to be)
// normalized to, or ref itself.
func (t *Tracker) canonicalReference(ref Reference) Reference {
	if ref.kind == KindRawID {
		return ref.Bare()
	}

	if canonical, ok := t.loadCanonical(ref); ok {
		return canonical
	}

	return ref.Bare()
}

func (t *Tracker) IsTracked(ref Reference) bool {
	return t.Crawler.IsTracked(t.canonicalReference(ref))
}

// Canonical returns the canonical reference a tracked reference has been
// normalized to.
func (t *Tracker) Canonical(ref Reference) (Reference, bool) {
	if ref.kind == KindRawID {
		return ref.Bare(), true
	}

	return t.loadCanonical(ref)
}
