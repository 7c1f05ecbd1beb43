package engine

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

type validator interface {
	Validate() error
}

// lookup is the single cache-then-fetch path shared by every kind.
//
// keys returns the cache keys a fetched value is stored under. The normalized
// query is always one of them, and all are written in one persisted update.
func lookup[T validator](
	ctx context.Context,
	r *Repository,
	kind cache.Kind,
	query string,
	fetch func(context.Context, string) (T, error),
	keys func(T) []string,
) (Result[T], error) {
	log := r.log(ctx)
	key := cache.Normalize(query)

	prior := r.cache.Get(kind, key)
	if prior != nil && r.cache.IsFresh(prior) {
		if v, ok := decodeEntry[T](prior); ok {
			log.Debug().
				Ctx(ctx).
				Str("component", "engine").
				Str("kind", string(kind)).
				Str("key", key).
				Msg("cache hit")
			return Result[T]{Data: v, Origin: cache.OriginCache}, nil
		}
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Str("kind", string(kind)).
			Str("key", key).
			Msg("cached payload no longer decodes, treating as miss")
		prior = nil
	}

	v, err := fetch(ctx, key)
	if err != nil {
		return Result[T]{}, err
	}

	origin := cache.ResolveOrigin(prior, false)
	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("kind", string(kind)).
		Str("key", key).
		Str("origin", string(origin)).
		Msg("fetched from api")

	data, err := json.Marshal(v)
	if err == nil {
		_, err = r.cache.PutAll(kind, withQueryKey(keys(v), key), data)
	}
	if err != nil {
		// The fetched value is still good; only the cache write is lost.
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Str("kind", string(kind)).
			Err(err).
			Msg("cache write failed")
	}
	return Result[T]{Data: v, Origin: origin}, nil
}

func withQueryKey(keys []string, key string) []string {
	for _, k := range keys {
		if cache.Normalize(k) == key {
			return keys
		}
	}
	return append(keys, key)
}

func decodeEntry[T validator](entry *cache.Entry) (T, bool) {
	var v T
	if err := json.Unmarshal(entry.Data, &v); err != nil {
		return v, false
	}
	if err := v.Validate(); err != nil {
		return v, false
	}
	return v, true
}

func idAndName(id int, name string) []string {
	return []string{strconv.Itoa(id), name}
}

// GetPokemon resolves a Pokémon and records it in history, whether it came
// from the cache or the API.
func (r *Repository) GetPokemon(ctx context.Context, query string) (Result[*pokeapi.Pokemon], error) {
	res, err := r.LookupPokemon(ctx, query)
	if err != nil {
		return res, err
	}
	if r.history != nil {
		if histErr := r.history.Add(res.Data.ID); histErr != nil {
			r.log(ctx).Warn().
				Ctx(ctx).
				Str("component", "engine").
				Int("pokemon_id", res.Data.ID).
				Err(histErr).
				Msg("recording history failed")
		}
	}
	return res, nil
}

// LookupPokemon resolves a Pokémon without touching history.
func (r *Repository) LookupPokemon(ctx context.Context, query string) (Result[*pokeapi.Pokemon], error) {
	return lookup(ctx, r, cache.KindPokemon, query, r.api.GetPokemon,
		func(p *pokeapi.Pokemon) []string { return idAndName(p.ID, p.Name) })
}

// GetAbility resolves an ability. "Solar Power" and "solar-power" share a
// cache key.
func (r *Repository) GetAbility(ctx context.Context, query string) (Result[*pokeapi.Ability], error) {
	return lookup(ctx, r, cache.KindAbility, pokeapi.NormalizeAbilityQuery(query), r.api.GetAbility,
		func(a *pokeapi.Ability) []string { return idAndName(a.ID, a.Name) })
}

// GetType resolves a type's damage relations, keyed by the query and by the
// name when the payload carries one.
func (r *Repository) GetType(ctx context.Context, name string) (Result[*pokeapi.TypeDetail], error) {
	return lookup(ctx, r, cache.KindType, name, r.api.GetType,
		func(t *pokeapi.TypeDetail) []string {
			if t.Name == "" {
				return nil
			}
			return []string{t.Name}
		})
}
