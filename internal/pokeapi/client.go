// Package pokeapi is a typed client for the public PokeAPI REST API.
//
// Every payload is decoded into a typed struct and validated before it is
// returned; shape mismatches surface as ErrMalformed (a kind of ErrNotFound)
// instead of half-populated values.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultBaseURL   = "https://pokeapi.co/api/v2/"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "pokefinder"

	// maxBodyBytes caps decoded payloads; the largest PokeAPI documents are a few MB.
	maxBodyBytes = 16 << 20
)

// Resource names, also used as URL path segments.
const (
	ResourcePokemon        = "pokemon"
	ResourceAbility        = "ability"
	ResourceType           = "type"
	ResourceSpecies        = "pokemon-species"
	ResourceEvolutionChain = "evolution-chain"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Client fetches PokeAPI resources.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string

	limiter *rate.Limiter
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.BaseURL = base
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.HTTPClient = h
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.UserAgent = ua
		}
	}
}

// WithRateLimiter throttles outbound requests with a token bucket.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client with defaults applied.
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  DefaultUserAgent,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	return c
}

// GetPokemon fetches /pokemon/{idOrName}.
func (c *Client) GetPokemon(ctx context.Context, query string) (*Pokemon, error) {
	q := normalizeQuery(query)
	var p Pokemon
	if err := c.fetch(ctx, ResourcePokemon, q, c.resourceURL(ResourcePokemon, q), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAbility fetches /ability/{idOrName}. Whitespace inside the query is
// replaced with dashes, so "solar power" finds "solar-power".
func (c *Client) GetAbility(ctx context.Context, query string) (*Ability, error) {
	q := NormalizeAbilityQuery(query)
	var a Ability
	if err := c.fetch(ctx, ResourceAbility, q, c.resourceURL(ResourceAbility, q), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetType fetches /type/{name}.
func (c *Client) GetType(ctx context.Context, name string) (*TypeDetail, error) {
	q := normalizeQuery(name)
	var t TypeDetail
	if err := c.fetch(ctx, ResourceType, q, c.resourceURL(ResourceType, q), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetSpecies fetches /pokemon-species/{idOrName}.
func (c *Client) GetSpecies(ctx context.Context, query string) (*Species, error) {
	q := normalizeQuery(query)
	var s Species
	if err := c.fetch(ctx, ResourceSpecies, q, c.resourceURL(ResourceSpecies, q), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEvolutionChain fetches an evolution chain by the absolute URL embedded
// in a species payload.
func (c *Client) GetEvolutionChain(ctx context.Context, chainURL string) (*EvolutionChain, error) {
	var ch EvolutionChain
	if err := c.fetch(ctx, ResourceEvolutionChain, chainURL, strings.TrimSpace(chainURL), &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// NormalizeAbilityQuery lowercases, trims and dashes whitespace runs.
func NormalizeAbilityQuery(query string) string {
	return whitespaceRun.ReplaceAllString(normalizeQuery(query), "-")
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func (c *Client) resourceURL(resource, query string) string {
	return c.BaseURL + resource + "/" + url.PathEscape(query)
}

type validator interface {
	Validate() error
}

// fetch performs a GET and decodes the JSON body into dst.
func (c *Client) fetch(ctx context.Context, resource, query, target string, dst validator) error {
	if query == "" {
		return &LookupError{Resource: resource, Query: query, Err: ErrNotFound, Cause: errors.New("empty query")}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &LookupError{Resource: resource, Query: query, Err: ErrUnavailable, Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &LookupError{Resource: resource, Query: query, Err: ErrNotFound, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Debug().Str("resource", resource).Str("query", query).Err(err).Msg("request failed")
		return &LookupError{Resource: resource, Query: query, Err: ErrUnavailable, Cause: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("resource", resource).
		Str("query", query).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &LookupError{Resource: resource, Query: query, Status: resp.StatusCode, Err: ErrNotFound}
	}

	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); decodeErr != nil {
		return &LookupError{Resource: resource, Query: query, Err: ErrMalformed, Cause: decodeErr}
	}
	if validateErr := dst.Validate(); validateErr != nil {
		return &LookupError{Resource: resource, Query: query, Err: ErrMalformed, Cause: validateErr}
	}
	return nil
}

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("pokeapi.Client(%s)", c.BaseURL)
}
