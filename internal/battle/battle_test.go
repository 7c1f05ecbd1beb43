package battle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokefinder/internal/engine"
	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
	"github.com/rshade/pokefinder/internal/pokeapi/pokeapitest"
	"github.com/rshade/pokefinder/internal/storage"
)

func mon(id int, name string, total int, types ...string) *pokeapi.Pokemon {
	p := &pokeapi.Pokemon{ID: id, Name: name, Stats: []pokeapi.PokemonStat{{BaseStat: total}}}
	for i, t := range types {
		p.Types = append(p.Types, pokeapi.PokemonType{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}})
	}
	return p
}

func staticLookup(mons map[string]*pokeapi.Pokemon) PokemonLookup {
	return func(_ context.Context, q string) (engine.Result[*pokeapi.Pokemon], error) {
		p, ok := mons[q]
		if !ok {
			return engine.Result[*pokeapi.Pokemon]{}, &pokeapi.LookupError{Resource: "pokemon", Query: q, Err: pokeapi.ErrNotFound}
		}
		return engine.Result[*pokeapi.Pokemon]{Data: p, Origin: cache.OriginCache}, nil
	}
}

var roster = map[string]*pokeapi.Pokemon{
	"pikachu":   mon(25, "pikachu", 320, "electric"),
	"squirtle":  mon(7, "squirtle", 314, "water"),
	"bulbasaur": mon(1, "bulbasaur", 318, "grass", "poison"),
	"typeless":  mon(0, "typeless", 100),
}

func chartLookup(calls *int, mu *sync.Mutex) TypeLookup {
	chart := map[string]*pokeapi.TypeDetail{
		"electric": {Name: "electric", DamageRelations: &pokeapi.DamageRelations{
			DoubleDamageTo: []pokeapi.NamedResource{{Name: "water"}},
			HalfDamageTo:   []pokeapi.NamedResource{{Name: "grass"}},
		}},
		"water": {Name: "water", DamageRelations: &pokeapi.DamageRelations{
			HalfDamageTo: []pokeapi.NamedResource{{Name: "grass"}},
		}},
		"grass": {Name: "grass", DamageRelations: &pokeapi.DamageRelations{
			DoubleDamageTo: []pokeapi.NamedResource{{Name: "water"}},
			HalfDamageTo:   []pokeapi.NamedResource{{Name: "poison"}},
		}},
	}
	return func(_ context.Context, name string) (engine.Result[*pokeapi.TypeDetail], error) {
		if mu != nil {
			mu.Lock()
			*calls++
			mu.Unlock()
		}
		t, ok := chart[name]
		if !ok {
			return engine.Result[*pokeapi.TypeDetail]{}, pokeapi.ErrNotFound
		}
		return engine.Result[*pokeapi.TypeDetail]{Data: t, Origin: cache.OriginAPI}, nil
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		b1     int
		m1     float64
		b2     int
		m2     float64
		winner SlotID
		s1, s2 float64
	}{
		{"higher total wins", 320, 1, 314, 1, Slot1, 320, 314},
		{"multiplier flips result", 300, 0.5, 200, 1, Slot2, 150, 200},
		{"tie goes to slot 1", 300, 1, 150, 2, Slot1, 300, 300},
		{"immunity zeroes score", 500, 0, 1, 1, Slot2, 0, 1},
		{"both zero ties", 10, 0, 10, 0, Slot1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, s1, s2 := Decide(tt.b1, tt.m1, tt.b2, tt.m2)
			assert.Equal(t, tt.winner, winner)
			assert.InDelta(t, tt.s1, s1, 1e-9)
			assert.InDelta(t, tt.s2, s2, 1e-9)
		})
	}
}

func TestSelect_SlotsFailIndependently(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))
	ctx := context.Background()

	slot, err := s.Select(ctx, Slot1, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, "pikachu", slot.Entity.Name)
	assert.False(t, s.Enabled())

	_, err = s.Select(ctx, Slot2, "missingno")
	require.ErrorIs(t, err, pokeapi.ErrNotFound)
	assert.Equal(t, "pikachu", s.Slot(Slot1).Entity.Name, "slot 1 untouched")
	assert.Nil(t, s.Slot(Slot2).Entity)
	assert.ErrorIs(t, s.Slot(Slot2).Err, pokeapi.ErrNotFound)
	assert.False(t, s.Enabled())

	_, err = s.Select(ctx, Slot2, "squirtle")
	require.NoError(t, err)
	assert.NoError(t, s.Slot(Slot2).Err)
	assert.True(t, s.Enabled())

	s.Reset()
	assert.False(t, s.Enabled())
}

func TestSelect_InvalidSlot(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))
	_, err := s.Select(context.Background(), 3, "pikachu")
	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.ErrorIs(t, s.Slot(0).Err, ErrInvalidSlot)
}

func TestSelect_StaleResultIsDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	lookup := func(ctx context.Context, q string) (engine.Result[*pokeapi.Pokemon], error) {
		if q == "slow" {
			close(started)
			<-release
			return engine.Result[*pokeapi.Pokemon]{Data: mon(1, "slow", 1), Origin: cache.OriginAPI}, nil
		}
		return staticLookup(roster)(ctx, q)
	}
	s := NewState(lookup)

	done := make(chan error, 1)
	go func() {
		_, err := s.Select(context.Background(), Slot1, "slow")
		done <- err
	}()
	<-started

	_, err := s.Select(context.Background(), Slot1, "pikachu")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, "pikachu", s.Slot(Slot1).Entity.Name)
}

func TestSelectBoth(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))

	s1, s2, err := s.SelectBoth(context.Background(), "pikachu", "squirtle")
	require.NoError(t, err)
	assert.Equal(t, 25, s1.Entity.ID)
	assert.Equal(t, 7, s2.Entity.ID)
	assert.True(t, s.Enabled())

	s1, s2, err = s.SelectBoth(context.Background(), "bulbasaur", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)
	assert.Contains(t, err.Error(), "slot 2")
	assert.Equal(t, 1, s1.Entity.ID)
	assert.Nil(t, s2.Entity)
	assert.False(t, s.Enabled())
}

func TestFight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		q1, q2 string
		winner SlotID
		m1, m2 float64
	}{
		{"electric beats water", "squirtle", "pikachu", Slot2, 1, 2},
		{"dual type defender multiplies", "pikachu", "bulbasaur", Slot2, 0.5, 1},
		{"grass vs water", "bulbasaur", "squirtle", Slot1, 2, 0.5},
		{"typeless attacker is neutral", "typeless", "pikachu", Slot2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(staticLookup(roster))
			_, _, err := s.SelectBoth(ctx, tt.q1, tt.q2)
			require.NoError(t, err)

			out, err := s.Fight(ctx, chartLookup(nil, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.winner, out.Winner)
			assert.InDelta(t, tt.m1, out.Fighters[0].Multiplier, 1e-9)
			assert.InDelta(t, tt.m2, out.Fighters[1].Multiplier, 1e-9)
			assert.Equal(t, out.Fighters[tt.winner-1].Pokemon.Name, out.WinnerFighter().Pokemon.Name)
		})
	}
}

func TestFight_NotReady(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))
	_, err := s.Select(context.Background(), Slot1, "pikachu")
	require.NoError(t, err)

	_, err = s.Fight(context.Background(), chartLookup(nil, nil))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFight_FailedReselectDisables(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))
	ctx := context.Background()
	_, _, err := s.SelectBoth(ctx, "pikachu", "squirtle")
	require.NoError(t, err)
	require.True(t, s.Enabled())

	_, err = s.Select(ctx, Slot2, "missingno")
	require.ErrorIs(t, err, pokeapi.ErrNotFound)
	assert.False(t, s.Enabled())

	_, err = s.Fight(ctx, chartLookup(nil, nil))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFight_ConcurrentReselect(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))
	ctx := context.Background()
	_, _, err := s.SelectBoth(ctx, "pikachu", "squirtle")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 500 {
			q := "squirtle"
			if i%2 == 0 {
				q = "missingno"
			}
			_, _ = s.Select(ctx, Slot2, q)
		}
	}()
	for range 500 {
		out, fightErr := s.Fight(ctx, chartLookup(nil, nil))
		if fightErr != nil {
			assert.ErrorIs(t, fightErr, ErrNotReady)
			continue
		}
		assert.Equal(t, "squirtle", out.Fighters[1].Pokemon.Name)
	}
	wg.Wait()
}

func TestFight_TypeLookupFailure(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(map[string]*pokeapi.Pokemon{
		"a": mon(1, "a", 10, "shadow"),
		"b": mon(2, "b", 10, "water"),
	}))
	_, _, err := s.SelectBoth(context.Background(), "a", "b")
	require.NoError(t, err)

	_, err = s.Fight(context.Background(), chartLookup(nil, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)
	assert.Contains(t, err.Error(), "shadow")
}

func TestFight_LooksUpEachPrimaryType(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		calls int
	)
	s := NewState(staticLookup(roster))
	_, _, err := s.SelectBoth(context.Background(), "pikachu", "squirtle")
	require.NoError(t, err)

	_, err = s.Fight(context.Background(), chartLookup(&calls, &mu))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFight_ThroughRepository(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewServer(t)
	api := pokeapi.NewClient(pokeapi.WithBaseURL(srv.BaseURL()), pokeapi.WithHTTPClient(srv.Client()))
	repo := engine.New(cache.New(storage.NewMemoryStore()), api, nil)
	ctx := context.Background()

	s := NewState(repo.LookupPokemon)
	s1, s2, err := s.SelectBoth(ctx, "charmander", "bulbasaur")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, s1.Origin)
	assert.Equal(t, cache.OriginAPI, s2.Origin)

	out, err := s.Fight(ctx, repo.GetType)
	require.NoError(t, err)

	// fire vs grass/poison: 2 * 1; grass vs fire: 0.5
	assert.InDelta(t, 2.0, out.Fighters[0].Multiplier, 1e-9)
	assert.InDelta(t, 0.5, out.Fighters[1].Multiplier, 1e-9)
	assert.Equal(t, Slot1, out.Winner)
	assert.InDelta(t, float64(pokeapitest.Total("charmander"))*2, out.Fighters[0].Score, 1e-9)

	_, err = s.Fight(ctx, repo.GetType)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Hits("type/fire"), "type relations cached")
}

func TestFight_Cancelled(t *testing.T) {
	t.Parallel()
	s := NewState(staticLookup(roster))
	_, _, err := s.SelectBoth(context.Background(), "pikachu", "squirtle")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	types := func(ctx context.Context, _ string) (engine.Result[*pokeapi.TypeDetail], error) {
		return engine.Result[*pokeapi.TypeDetail]{}, ctx.Err()
	}
	_, err = s.Fight(ctx, types)
	assert.ErrorIs(t, err, context.Canceled)
}
