package youtube

import (
	"errors"
	"log/slog"

	"golang.org/x/time/rate"
)

//////////////////////////////////////////////////

type config struct {
	logger  *slog.Logger
	lookup  Lookup
	cache   Cache
	limiter *rate.Limiter

	settings struct {
		v  ResolverSettings
		ok bool
	}
}

var (
	NilConfig = errors.New("config is nil")
)

func validateConfig(cfg *config) error {
	if cfg == nil {
		return NilConfig
	}

	// Without a lookup only cached results can be served.
	if cfg.lookup == nil && !(cfg.settings.ok && cfg.settings.v.Offline) {
		return NilLookup
	}

	return nil
}

func buildResolverFromConfig(cfg *config) (r *Resolver, err error) {
	if cfg == nil {
		err = NilConfig
		return
	}

	cache := cfg.cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	r = &Resolver{
		logger:  cfg.logger,
		lookup:  cfg.lookup,
		cache:   cache,
		limiter: cfg.limiter,
	}

	if cfg.settings.ok {
		r.SetSettings(cfg.settings.v)
	} else {
		r.SetSettings(DefaultResolverSettings)
	}

	return r, nil
}

type ConfigOption func(cfg *config)

//////////////////////////////////////////////////

func WithLogger(logger *slog.Logger) ConfigOption {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func WithLookup(lookup Lookup) ConfigOption {
	return func(cfg *config) {
		cfg.lookup = lookup
	}
}

// WithCache replaces the default (per-resolver) MemoryCache.
func WithCache(cache Cache) ConfigOption {
	return func(cfg *config) {
		cfg.cache = cache
	}
}

// WithRateLimiter makes every remote lookup wait for limiter first.
func WithRateLimiter(limiter *rate.Limiter) ConfigOption {
	return func(cfg *config) {
		cfg.limiter = limiter
	}
}

func WithRateLimit(limit rate.Limit, burst int) ConfigOption {
	return WithRateLimiter(rate.NewLimiter(limit, burst))
}

func WithSettings(settings ResolverSettings) ConfigOption {
	return func(cfg *config) {
		cfg.settings.v = settings
		cfg.settings.ok = true
	}
}
