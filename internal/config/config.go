// Package config loads the sysdesign TOML configuration.
//
// Values are resolved in order: built-in defaults, then the config file.
// Command-line flags are applied on top by the CLI. Durations are written as
// Go duration strings ("300ms", "24h").
//
// Example config.toml:
//
//	[dropdown]
//	offset = 1
//	padding = 1
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[search]
//	mode = "remote"
//	url = "http://localhost:8080"
//	debounce = "300ms"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sysdesign/pkg/cache"
	"github.com/matzehuels/sysdesign/pkg/errors"
)

const (
	appName  = "sysdesign"
	fileName = "config.toml"
)

// Search modes.
const (
	SearchEmbedded = "embedded"
	SearchRemote   = "remote"
)

// Duration is a time.Duration that decodes from a string such as "300ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full configuration.
type Config struct {
	Dropdown DropdownConfig `toml:"dropdown"`
	Cache    CacheConfig    `toml:"cache"`
	Search   SearchConfig   `toml:"search"`
	Server   ServerConfig   `toml:"server"`
	Site     SiteConfig     `toml:"site"`
}

// DropdownConfig tunes panel positioning in terminal cells.
type DropdownConfig struct {
	Offset  int `toml:"offset"`
	Padding int `toml:"padding"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// SearchConfig configures the location autocomplete.
type SearchConfig struct {
	Mode     string   `toml:"mode"`
	URL      string   `toml:"url"`
	Limit    int      `toml:"limit"`
	Debounce Duration `toml:"debounce"`
	Timeout  Duration `toml:"timeout"`
}

// ServerConfig configures the locations API server.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Seed       bool   `toml:"seed"`
}

// SiteConfig configures article rendering.
type SiteConfig struct {
	Style string `toml:"style"`
	Width int    `toml:"width"`
}

// Default returns the built-in configuration. Terminal cells are much coarser
// than pixels, so the dropdown gap and edge padding are a single cell.
func Default() Config {
	return Config{
		Dropdown: DropdownConfig{Offset: 1, Padding: 1},
		Cache: CacheConfig{
			Backend: cache.BackendMemory,
			TTL:     Duration{24 * time.Hour},
		},
		Search: SearchConfig{
			Mode:     SearchEmbedded,
			Limit:    10,
			Debounce: Duration{300 * time.Millisecond},
			Timeout:  Duration{5 * time.Second},
		},
		Server: ServerConfig{
			Addr:       ":8080",
			Database:   appName,
			Collection: "locations",
		},
		Site: SiteConfig{Style: "dark"},
	}
}

// Dir returns the configuration directory, respecting XDG_CONFIG_HOME.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate home directory")
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config file at path over the defaults. An empty path uses
// Path(); a missing default file is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML into cfg, leaving fields absent from data untouched.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks value ranges and cross-field requirements.
func (c Config) Validate() error {
	if c.Dropdown.Offset < 0 || c.Dropdown.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dropdown offset and padding must not be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendMemory, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	switch c.Search.Mode {
	case SearchEmbedded:
	case SearchRemote:
		if c.Search.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "search mode remote requires url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown search mode %q", c.Search.Mode)
	}
	if c.Search.Limit <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "search limit must be positive")
	}
	if c.Search.Debounce.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "search debounce must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server addr cannot be empty")
	}
	if c.Site.Width < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "site width must not be negative")
	}
	return nil
}

// CacheTarget returns the backend-specific target for cache.Open.
func (c CacheConfig) CacheTarget() string {
	switch c.Backend {
	case cache.BackendFile:
		return c.Dir
	case cache.BackendRedis:
		return c.RedisURL
	}
	return ""
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
