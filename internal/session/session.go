// Package session wires one store, cache, API client, registries, repository
// and battle state together for a single process.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rshade/pokefinder/internal/battle"
	"github.com/rshade/pokefinder/internal/config"
	"github.com/rshade/pokefinder/internal/engine"
	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/logging"
	"github.com/rshade/pokefinder/internal/pokeapi"
	"github.com/rshade/pokefinder/internal/registry"
	"github.com/rshade/pokefinder/internal/storage"
)

// Session is the explicit context object handed to presentation code.
type Session struct {
	Config    *config.Config
	Store     storage.Store
	Cache     *cache.Engine
	API       *pokeapi.Client
	History   *registry.History
	Favorites *registry.Favorites
	Repo      *engine.Repository
	Battle    *battle.State
}

// Option adjusts how Open builds a Session.
type Option func(*options)

type options struct {
	store      storage.Store
	httpClient *http.Client
	now        func() time.Time
}

// WithStore uses store instead of opening one from the config.
func WithStore(store storage.Store) Option {
	return func(o *options) { o.store = store }
}

// WithHTTPClient replaces the API HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithClock injects the cache clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open builds a Session from cfg. The logger attached to ctx is handed to
// every component.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}

	log := *logging.FromContext(ctx)
	store := o.store
	if store == nil {
		if cfg.Cache.Engine != storage.EngineMemory {
			if err = cfg.EnsureDataDir(); err != nil {
				return nil, err
			}
		}
		store, err = storage.NewByEngine(cfg.Cache.Engine, cfg.StorePath())
		if err != nil {
			return nil, fmt.Errorf("opening %s store: %w", cfg.Cache.Engine, err)
		}
	}

	cacheOpts := []cache.Option{
		cache.WithTTL(ttl),
		cache.WithLogger(logging.ComponentLogger(log, "cache")),
	}
	if o.now != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.now))
	}
	c := cache.New(store, cacheOpts...)

	api := pokeapi.NewClient(apiOptions(cfg, o.httpClient, log)...)
	history := registry.NewHistory(store, c,
		registry.WithMaxEntries(cfg.History.MaxEntries),
		registry.WithHistoryLogger(logging.ComponentLogger(log, "history")),
	)
	favorites := registry.NewFavorites(store, logging.ComponentLogger(log, "favorites"))
	repo := engine.New(c, api, history, engine.WithLogger(logging.ComponentLogger(log, "engine")))

	log.Debug().
		Str("component", "session").
		Str("engine", cfg.Cache.Engine).
		Str("ttl", cache.FormatDuration(ttl)).
		Str("api", api.BaseURL).
		Msg("session opened")

	return &Session{
		Config:    cfg,
		Store:     store,
		Cache:     c,
		API:       api,
		History:   history,
		Favorites: favorites,
		Repo:      repo,
		Battle:    battle.NewState(repo.LookupPokemon),
	}, nil
}

func apiOptions(cfg *config.Config, httpClient *http.Client, log zerolog.Logger) []pokeapi.Option {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}
	opts := []pokeapi.Option{
		pokeapi.WithBaseURL(cfg.API.BaseURL),
		pokeapi.WithHTTPClient(httpClient),
		pokeapi.WithUserAgent(cfg.API.UserAgent),
		pokeapi.WithLogger(logging.ComponentLogger(log, "pokeapi")),
	}
	if cfg.API.RateLimit > 0 {
		burst := max(cfg.API.Burst, 1)
		opts = append(opts, pokeapi.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.API.RateLimit), burst)))
	}
	return opts
}

// Close releases the store.
func (s *Session) Close() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
