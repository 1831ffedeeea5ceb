package rotoframe

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// DefaultConfigFile is the file name LoadConfig callers look for by convention.
const DefaultConfigFile = "rotoframe.toml"

// Config holds the tunables of a Session.
type Config struct {
	Placeholder PlaceholderConfig `toml:"placeholder"`
	Cache       CacheConfig       `toml:"cache"`
	Log         LogConfig         `toml:"log"`
}

// PlaceholderConfig sizes the NullSource used before any input is selected.
type PlaceholderConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// CacheConfig bounds FrameCache. Capacity 0 disables eviction.
type CacheConfig struct {
	Capacity int `toml:"capacity"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Placeholder: PlaceholderConfig{
			Width:  DefaultPlaceholderWidth,
			Height: DefaultPlaceholderHeight,
		},
		Cache: CacheConfig{
			Capacity: DefaultCacheCapacity,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a TOML configuration from path on fsys.
// Keys absent from the file keep their default values. A missing file
// returns DefaultConfig and no error.
func LoadConfig(fsys afero.Fs, path string) (Config, error) {
	cfg := DefaultConfig()
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("rotoframe: read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("rotoframe: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("rotoframe: config %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("rotoframe: marshal config: %w", err)
	}
	return data, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Placeholder.Width <= 0 || c.Placeholder.Height <= 0 {
		return fmt.Errorf("%w: placeholder %dx%d", ErrInvalidDimensions, c.Placeholder.Width, c.Placeholder.Height)
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("rotoframe: negative cache capacity %d", c.Cache.Capacity)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level. An empty level means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("rotoframe: unknown log level %q", l.Level)
	}
}
