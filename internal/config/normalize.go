package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeYouTube()
	c.normalizeLookup()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	if c.YouTube.APIKey == "" {
		if value, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok {
			c.YouTube.APIKey = strings.TrimSpace(value)
		}
	}

	c.YouTube.Platform = strings.ToLower(strings.TrimSpace(c.YouTube.Platform))
	if c.YouTube.Platform == "" {
		c.YouTube.Platform = "youtube"
	}
}

func (c *Config) normalizeLookup() {
	c.Lookup.Backend = strings.ToLower(strings.TrimSpace(c.Lookup.Backend))
	if c.Lookup.Backend == "" {
		c.Lookup.Backend = BackendFeed
	}
}

func (c *Config) normalizeCache() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}

	c.Cache.URL = strings.TrimSpace(c.Cache.URL)

	if c.Cache.Backend == CacheSQLite {
		if strings.TrimSpace(c.Cache.Path) == "" {
			c.Cache.Path = defaultCachePath
		}

		var err error
		if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
			return fmt.Errorf("cache.path: %w", err)
		}
	}

	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
