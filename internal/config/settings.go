package config

import (
	"github.com/rubpy/crawly"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

// ResolverSettings converts the [youtube] section.
func (c *Config) ResolverSettings() youtube.ResolverSettings {
	return youtube.ResolverSettings{
		Platform:      c.YouTube.Platform,
		Offline:       c.YouTube.Offline,
		CacheNotFound: c.YouTube.CacheNotFound,
	}
}

// TrackerSettings converts the [tracker] section.
func (c *Config) TrackerSettings() youtube.TrackerSettings {
	settings := youtube.DefaultTrackerSettings

	settings.MinimumRefreshDelay = seconds(c.Tracker.RefreshDelaySeconds)
	settings.MinimumFetchChannelFeedDelay = seconds(c.Tracker.FeedDelaySeconds)
	settings.MaximumUploads = c.Tracker.MaxUploads
	settings.RefreshTimeout = seconds(c.Tracker.RefreshTimeoutSeconds)

	return settings
}

// SessionSettings returns the crawl session settings of the [tracker]
// section.
func (c *Config) SessionSettings() crawly.SessionSettings {
	return crawly.SessionSettings{
		Interval:          seconds(c.Tracker.IntervalSeconds),
		SinglePassTimeout: seconds(c.Tracker.SinglePassTimeoutSeconds),

		Paused:    false,
		PauseIdle: false,
	}
}
