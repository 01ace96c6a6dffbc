package config

const (
	BackendAPI  = "api"
	BackendFeed = "feed"

	CacheMemory   = "memory"
	CacheSQLite   = "sqlite"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

const defaultCachePath = "~/.cache/ytchan/lookups.db"

// Default returns the configuration used for anything a file leaves unset.
func Default() Config {
	return Config{
		YouTube: YouTube{
			Platform:      "youtube",
			CacheNotFound: true,
		},
		Lookup: Lookup{
			Backend:           BackendFeed,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: Cache{
			Backend:    CacheSQLite,
			Path:       defaultCachePath,
			TTLSeconds: 7 * 24 * 60 * 60,
		},
		Tracker: Tracker{
			IntervalSeconds:          60,
			SinglePassTimeoutSeconds: 90,
			RefreshDelaySeconds:      6 * 60 * 60,
			FeedDelaySeconds:         15 * 60,
			RefreshTimeoutSeconds:    15,
			MaxUploads:               5,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}
