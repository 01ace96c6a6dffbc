package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// YouTube contains resolver settings.
type YouTube struct {
	APIKey        string `toml:"api_key"`
	Platform      string `toml:"platform"`
	Offline       bool   `toml:"offline"`
	CacheNotFound bool   `toml:"cache_not_found"`
}

// Lookup selects and throttles the remote lookup backend.
type Lookup struct {
	Backend           string  `toml:"backend"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Cache selects the lookup cache store.
type Cache struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	URL        string `toml:"url"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Tracker contains channel tracking intervals.
type Tracker struct {
	IntervalSeconds          int `toml:"interval_seconds"`
	SinglePassTimeoutSeconds int `toml:"single_pass_timeout_seconds"`
	RefreshDelaySeconds      int `toml:"refresh_delay_seconds"`
	FeedDelaySeconds         int `toml:"feed_delay_seconds"`
	RefreshTimeoutSeconds    int `toml:"refresh_timeout_seconds"`
	MaxUploads               int `toml:"max_uploads"`
}

// Logging contains logger settings.
type Logging struct {
	Level string `toml:"level"`
}

// Config is the complete ytchan configuration.
type Config struct {
	YouTube YouTube `toml:"youtube"`
	Lookup  Lookup  `toml:"lookup"`
	Cache   Cache   `toml:"cache"`
	Tracker Tracker `toml:"tracker"`
	Logging Logging `toml:"logging"`
}

const defaultConfigPath = "~/.config/ytchan/config.toml"

// DefaultConfigPath returns the absolute path of the default configuration
// file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads, normalizes and validates the configuration at path (the
// default location if empty). A missing file yields the defaults. It also
// returns the resolved path and whether the file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}

	return expanded, true, nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// CreateSample writes the sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules (~, relative paths) to other
// packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
