package config

import (
	"fmt"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvHome        = "POKEFINDER_HOME"
	EnvCacheTTL    = "POKEFINDER_CACHE_TTL"
	EnvDataDir     = "POKEFINDER_DATA_DIR"
	EnvStoreEngine = "POKEFINDER_STORE_ENGINE"
	EnvAPIURL      = "POKEFINDER_API_URL"
	EnvLogLevel    = "POKEFINDER_LOG_LEVEL"
	EnvLogFormat   = "POKEFINDER_LOG_FORMAT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays POKEFINDER_* variables. Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvCacheTTL); ok {
		c.Cache.TTL = v
		if _, err := c.CacheTTL(); err != nil {
			return fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
	}
	if v, ok := get(EnvDataDir); ok {
		c.DataDir = v
	}
	if v, ok := get(EnvStoreEngine); ok {
		c.Cache.Engine = strings.ToLower(v)
	}
	if v, ok := get(EnvAPIURL); ok {
		c.API.BaseURL = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFormat); ok {
		c.Logging.Format = strings.ToLower(v)
	}
	return nil
}
