package engine

import (
	"context"
	"strconv"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

// GetSpecies fetches a species. It is never cached on disk.
func (r *Repository) GetSpecies(ctx context.Context, idOrName string) (*pokeapi.Species, error) {
	key := cache.Normalize(idOrName)
	if r.species != nil {
		if sp, ok := r.species.Get(key); ok {
			return sp, nil
		}
	}
	sp, err := r.api.GetSpecies(ctx, key)
	if err != nil {
		return nil, err
	}
	if r.species != nil {
		r.species.Add(key, sp)
	}
	return sp, nil
}

// GetEvolutionChain fetches a chain by its absolute URL. It is never cached
// on disk.
func (r *Repository) GetEvolutionChain(ctx context.Context, chainURL string) (*pokeapi.EvolutionChain, error) {
	if r.chains != nil {
		if ch, ok := r.chains.Get(chainURL); ok {
			return ch, nil
		}
	}
	ch, err := r.api.GetEvolutionChain(ctx, chainURL)
	if err != nil {
		return nil, err
	}
	if r.chains != nil {
		r.chains.Add(chainURL, ch)
	}
	return ch, nil
}

// Evolution resolves p's species and evolution chain and flattens the chain
// into levels. Callers render a failure as "evolution unavailable".
func (r *Repository) Evolution(ctx context.Context, p *pokeapi.Pokemon) ([][]pokeapi.Stage, error) {
	speciesKey := strconv.Itoa(p.ID)
	if id, ok := pokeapi.SpeciesIDFromURL(p.Species.URL); ok {
		speciesKey = strconv.Itoa(id)
	}

	sp, err := r.GetSpecies(ctx, speciesKey)
	if err != nil {
		return nil, err
	}
	ch, err := r.GetEvolutionChain(ctx, sp.EvolutionChain.URL)
	if err != nil {
		return nil, err
	}
	return pokeapi.Levels(ch.Chain), nil
}
