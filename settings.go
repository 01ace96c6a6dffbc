package youtube

import (
	"time"

	"github.com/rubpy/crawly"
)

//////////////////////////////////////////////////

type ResolverSettings struct {
	// Platform assumed for input that is not a URL.
	Platform string

	// Only consult the cache; a cache miss counts as "not found" and no remote
	// call is ever made. Meant for deterministic tests and offline use.
	Offline bool

	// Remember "not found" lookup results (service errors are never cached).
	CacheNotFound bool
}

var DefaultResolverSettings = ResolverSettings{
	Platform:      Platform,
	Offline:       false,
	CacheNotFound: true,
}

func (r *Resolver) loadSettings() ResolverSettings {
	return r.settings.Load()
}

func (r *Resolver) Settings() ResolverSettings {
	return r.loadSettings()
}

func (r *Resolver) SetSettings(settings ResolverSettings) {
	if settings.Platform == "" {
		settings.Platform = Platform
	}

	r.settings.Store(settings)
}

//////////////////////////////////////////////////

type TrackerSettings struct {
	crawly.CrawlerSettings

	// Channel records are looked up again after this delay (through the
	// resolver cache, so a long-lived cache keeps this cheap).
	MinimumRefreshDelay time.Duration

	// Uploads are only fetched if the tracker was given a FeedLookup.
	MinimumFetchChannelFeedDelay time.Duration
	MaximumUploads               int

	RefreshTimeout time.Duration
}

var DefaultTrackerSettings = TrackerSettings{
	CrawlerSettings: crawly.DefaultCrawlerSettings,

	MinimumRefreshDelay:          6 * time.Hour,
	MinimumFetchChannelFeedDelay: 15 * time.Minute,
	MaximumUploads:               5,

	RefreshTimeout: 15 * time.Second,
}

func (t *Tracker) loadSettings() TrackerSettings {
	return t.settings.Load()
}

func (t *Tracker) setSettings(settings TrackerSettings) {
	t.settings.Store(settings)
	crawly.SetCrawlerSettings(&t.Crawler, settings.CrawlerSettings)
}

func (t *Tracker) Settings() TrackerSettings {
	return t.loadSettings()
}

func (t *Tracker) SetSettings(settings TrackerSettings) {
	t.setSettings(settings)
}
