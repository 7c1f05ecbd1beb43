// Package config loads pokefinder settings.
//
// Settings are resolved in layers: built-in defaults, then the YAML config
// file (merged section by section), then POKEFINDER_* environment variables.
// Command-line flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/storage"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Defaults.
const (
	DefaultAPIURL     = "https://pokeapi.co/api/v2/"
	DefaultAPITimeout = 10 * time.Second
	DefaultRateLimit  = 20.0
	DefaultBurst      = 5
	DefaultUserAgent  = "pokefinder"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"   json:"cache"`
	API     APIConfig     `yaml:"api"     json:"api"`
	History HistoryConfig `yaml:"history" json:"history"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Output  OutputConfig  `yaml:"output"  json:"output"`

	// DataDir holds the persisted cache, history and favorites.
	DataDir string `yaml:"data_dir,omitempty" json:"data_dir"`
}

// CacheConfig controls the entity cache.
type CacheConfig struct {
	// TTL accepts a duration ("24h", "90m", "7d") or whole seconds.
	TTL string `yaml:"ttl" json:"ttl"`
	// Engine selects the storage backend: file, sqlite or memory.
	Engine string `yaml:"engine" json:"engine"`
}

// APIConfig controls the PokeAPI client.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   json:"base_url"`
	Timeout   time.Duration `yaml:"timeout"    json:"timeout"`
	RateLimit float64       `yaml:"rate_limit" json:"rate_limit"`
	Burst     int           `yaml:"burst"      json:"burst"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// HistoryConfig controls the search history.
type HistoryConfig struct {
	// MaxEntries caps the history length; 0 keeps everything.
	MaxEntries int `yaml:"max_entries" json:"max_entries"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
}

// New returns a Config populated with defaults.
func New() *Config {
	dataDir := ""
	if home, err := HomeDir(); err == nil {
		dataDir = filepath.Join(home, "data")
	}
	return &Config{
		Cache: CacheConfig{
			TTL:    cache.FormatDuration(cache.DefaultTTL),
			Engine: storage.EngineFile,
		},
		API: APIConfig{
			BaseURL:   DefaultAPIURL,
			Timeout:   DefaultAPITimeout,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
			UserAgent: DefaultUserAgent,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
		},
		DataDir: dataDir,
	}
}

// Load resolves defaults, the config file at path and the environment.
// An empty path means the default location, which may be absent; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := MergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CacheTTL parses Cache.TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	ttl, err := cache.ParseTTL(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("%w: cache.ttl: %w", ErrInvalidConfig, err)
	}
	return ttl, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	switch c.Cache.Engine {
	case storage.EngineFile, storage.EngineSQLite, storage.EngineMemory:
	default:
		return fmt.Errorf("%w: cache.engine %q (want file, sqlite or memory)", ErrInvalidConfig, c.Cache.Engine)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalidConfig)
	}
	if c.API.RateLimit < 0 || c.API.Burst < 0 {
		return fmt.Errorf("%w: api.rate_limit and api.burst cannot be negative", ErrInvalidConfig)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("%w: history.max_entries cannot be negative", ErrInvalidConfig)
	}
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("%w: output.default_format %q (want table or json)", ErrInvalidConfig, c.Output.DefaultFormat)
	}
	if c.Cache.Engine != storage.EngineMemory && c.DataDir == "" {
		return fmt.Errorf("%w: data directory could not be determined", ErrInvalidConfig)
	}
	return nil
}

// StorePath is the location handed to storage.NewByEngine.
func (c *Config) StorePath() string {
	if c.Cache.Engine == storage.EngineSQLite {
		return filepath.Join(c.DataDir, "pokefinder.db")
	}
	return c.DataDir
}

// Save writes the config as YAML. It refuses to replace an existing file
// unless overwrite is set.
func (c *Config) Save(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
