package engine

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/logging"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

// DefaultMemoSize bounds the species and evolution chain memos.
const DefaultMemoSize = 128

// Fetcher is the remote side of the repository.
type Fetcher interface {
	GetPokemon(ctx context.Context, query string) (*pokeapi.Pokemon, error)
	GetAbility(ctx context.Context, query string) (*pokeapi.Ability, error)
	GetType(ctx context.Context, name string) (*pokeapi.TypeDetail, error)
	GetSpecies(ctx context.Context, query string) (*pokeapi.Species, error)
	GetEvolutionChain(ctx context.Context, chainURL string) (*pokeapi.EvolutionChain, error)
}

// HistoryRecorder receives the id of every Pokémon shown to the user.
type HistoryRecorder interface {
	Add(id int) error
}

// Result is a resolved entity together with where it came from.
type Result[T any] struct {
	Data   T            `json:"data"`
	Origin cache.Origin `json:"origin"`
}

// Repository resolves entities through the cache.
type Repository struct {
	cache   *cache.Engine
	api     Fetcher
	history HistoryRecorder
	logger  zerolog.Logger

	memoSize int
	species  *lru.Cache[string, *pokeapi.Species]
	chains   *lru.Cache[string, *pokeapi.EvolutionChain]
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithMemoSize sets the species/chain memo capacity. Zero disables it.
func WithMemoSize(n int) Option {
	return func(r *Repository) {
		if n >= 0 {
			r.memoSize = n
		}
	}
}

// New builds a Repository. history may be nil, in which case GetPokemon
// records nothing.
func New(c *cache.Engine, api Fetcher, history HistoryRecorder, opts ...Option) *Repository {
	r := &Repository{
		cache:    c,
		api:      api,
		history:  history,
		logger:   zerolog.Nop(),
		memoSize: DefaultMemoSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.memoSize > 0 {
		// lru.New only fails for a non-positive size.
		r.species, _ = lru.New[string, *pokeapi.Species](r.memoSize)
		r.chains, _ = lru.New[string, *pokeapi.EvolutionChain](r.memoSize)
	}
	return r
}

// Cache exposes the underlying cache engine.
func (r *Repository) Cache() *cache.Engine {
	return r.cache
}

// log returns the context logger, or the repository logger when the context
// has none attached.
func (r *Repository) log(ctx context.Context) *zerolog.Logger {
	if l := logging.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &r.logger
}
