package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLookup(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateTracker(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLookup() error {
	switch c.Lookup.Backend {
	case BackendAPI:
		if c.YouTube.APIKey == "" && !c.YouTube.Offline {
			return fmt.Errorf("youtube.api_key is required with lookup.backend = %q. Set YOUTUBE_API_KEY or use lookup.backend = %q", BackendAPI, BackendFeed)
		}
	case BackendFeed:
	default:
		return fmt.Errorf("lookup.backend must be %q or %q, got %q", BackendAPI, BackendFeed, c.Lookup.Backend)
	}

	if c.Lookup.RequestsPerSecond < 0 {
		return errors.New("lookup.requests_per_second must not be negative")
	}
	if c.Lookup.Burst < 0 {
		return errors.New("lookup.burst must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheMemory, CacheSQLite:
	case CacheRedis, CachePostgres:
		if c.Cache.URL == "" {
			return fmt.Errorf("cache.url is required with cache.backend = %q", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("cache.backend must be one of memory, sqlite, redis, postgres, got %q", c.Cache.Backend)
	}

	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache.ttl_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateTracker() error {
	values := map[string]int{
		"tracker.interval_seconds":            c.Tracker.IntervalSeconds,
		"tracker.single_pass_timeout_seconds": c.Tracker.SinglePassTimeoutSeconds,
		"tracker.refresh_timeout_seconds":     c.Tracker.RefreshTimeoutSeconds,
	}
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if c.Tracker.RefreshDelaySeconds < 0 || c.Tracker.FeedDelaySeconds < 0 {
		return errors.New("tracker delays must not be negative")
	}
	if c.Tracker.MaxUploads < 0 {
		return errors.New("tracker.max_uploads must not be negative")
	}
	return nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return level, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// CacheTTL is cache.ttl_seconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return seconds(c.Cache.TTLSeconds)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
