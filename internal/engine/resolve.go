package engine

import (
	"context"
	"strconv"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

// View is one resolved row of an id list.
type View struct {
	ID      int
	Pokemon *pokeapi.Pokemon
	Origin  cache.Origin
	Err     error
}

// Resolve turns a favorites or history id list into rows. Fresh entries come
// from the cache; anything else is repaired with a lookup that does not
// record history. A failed repair is reported on its own row and never
// aborts the list.
func (r *Repository) Resolve(ctx context.Context, ids []int) []View {
	views := make([]View, 0, len(ids))
	for _, id := range ids {
		res, err := r.LookupPokemon(ctx, strconv.Itoa(id))
		if err != nil {
			r.log(ctx).Debug().
				Ctx(ctx).
				Str("component", "engine").
				Int("pokemon_id", id).
				Err(err).
				Msg("favorite repair failed")
			views = append(views, View{ID: id, Err: err})
			continue
		}
		views = append(views, View{ID: id, Pokemon: res.Data, Origin: res.Origin})
	}
	return views
}
