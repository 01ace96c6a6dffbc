package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	youtube "github.com/rubpy/crawly-channel-youtube"
	"github.com/rubpy/crawly-channel-youtube/cachestore"
	"github.com/rubpy/crawly-channel-youtube/internal/config"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	logOutput io.Writer
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
		logOutput:   os.Stderr,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	level := slog.LevelInfo
	if cfg, err := c.ensureConfig(); err == nil {
		if l, err := cfg.LogLevel(); err == nil {
			level = l
		}
	}
	if c.verboseFlag != nil && *c.verboseFlag {
		level = slog.LevelDebug
	}

	return slog.New(
		tint.NewHandler(c.logOutput, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		}),
	)
}

//////////////////////////////////////////////////

// openCache opens the configured cache store. The returned close function is
// never nil.
func (c *commandContext) openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (youtube.Cache, func(), error) {
	noop := func() {}
	logger = logger.WithGroup("cache")

	var (
		store cachestore.Store
		err   error
	)

	switch cfg.Cache.Backend {
	case config.CacheSQLite:
		store, err = cachestore.OpenSQLite(cfg.Cache.Path, cfg.CacheTTL(), logger)
	case config.CacheRedis:
		store, err = cachestore.DialRedis(ctx, cfg.Cache.URL, cfg.CacheTTL(), logger)
	case config.CachePostgres:
		store, err = cachestore.ConnectPostgres(ctx, cfg.Cache.URL, cfg.CacheTTL(), logger)
	default:
		return youtube.NewMemoryCache(), noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}

	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache", slog.Any("err", err))
		}
	}, nil
}

// newLookup builds the configured remote lookup. It returns a nil Lookup when
// offline and no API key is available for the api backend.
func (c *commandContext) newLookup(ctx context.Context, cfg *config.Config, settings youtube.ResolverSettings, logger *slog.Logger) (youtube.Lookup, *youtube.FeedLookup, error) {
	feed, err := youtube.NewFeedLookup(logger.WithGroup("feed"))
	if err != nil {
		return nil, nil, fmt.Errorf("youtube.NewFeedLookup: %w", err)
	}

	if cfg.Lookup.Backend != config.BackendAPI {
		return feed, feed, nil
	}

	if cfg.YouTube.APIKey == "" {
		if settings.Offline {
			return nil, feed, nil
		}
		return nil, nil, fmt.Errorf("youtube.api_key is required with lookup.backend = %q", config.BackendAPI)
	}

	srv, err := ytapi.NewService(ctx, option.WithAPIKey(cfg.YouTube.APIKey))
	if err != nil {
		return nil, nil, fmt.Errorf("youtube.NewService: %w", err)
	}

	lookup, err := youtube.NewAPILookup(srv)
	if err != nil {
		return nil, nil, fmt.Errorf("youtube.NewAPILookup: %w", err)
	}

	return lookup, feed, nil
}

type resolverOverrides struct {
	platform string
	offline  bool
}

// newResolver builds a Resolver (and the FeedLookup used for uploads) from
// the configuration. The returned close function releases the cache.
func (c *commandContext) newResolver(ctx context.Context, overrides resolverOverrides) (*youtube.Resolver, *youtube.FeedLookup, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, func() {}, err
	}

	logger := c.logger()

	settings := cfg.ResolverSettings()
	if p := strings.ToLower(strings.TrimSpace(overrides.platform)); p != "" {
		settings.Platform = p
	}
	if overrides.offline {
		settings.Offline = true
	}

	cache, closeCache, err := c.openCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, closeCache, err
	}

	lookup, feed, err := c.newLookup(ctx, cfg, settings, logger)
	if err != nil {
		closeCache()
		return nil, nil, func() {}, err
	}

	opts := []youtube.ConfigOption{
		youtube.WithLogger(logger.WithGroup("resolver")),
		youtube.WithLookup(lookup),
		youtube.WithCache(cache),
		youtube.WithSettings(settings),
	}
	if cfg.Lookup.RequestsPerSecond > 0 {
		burst := cfg.Lookup.Burst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, youtube.WithRateLimit(rate.Limit(cfg.Lookup.RequestsPerSecond), burst))
	}

	r, err := youtube.NewResolver(opts...)
	if err != nil {
		closeCache()
		return nil, nil, func() {}, fmt.Errorf("youtube.NewResolver: %w", err)
	}

	return r, feed, closeCache, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
