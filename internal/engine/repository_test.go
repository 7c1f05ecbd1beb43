package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
	"github.com/rshade/pokefinder/internal/pokeapi/pokeapitest"
	"github.com/rshade/pokefinder/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingHistory struct {
	mu  sync.Mutex
	ids []int
	err error
}

func (h *recordingHistory) Add(id int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.ids = append(h.ids, id)
	return nil
}

func (h *recordingHistory) IDs() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.ids...)
}

type fixture struct {
	repo    *Repository
	cache   *cache.Engine
	srv     *pokeapitest.Server
	clock   *fakeClock
	history *recordingHistory
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	srv := pokeapitest.NewServer(t)
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	c := cache.New(storage.NewMemoryStore(), cache.WithClock(clock.Now))
	api := pokeapi.NewClient(pokeapi.WithBaseURL(srv.BaseURL()), pokeapi.WithHTTPClient(srv.Client()))
	history := &recordingHistory{}
	return &fixture{
		repo:    New(c, api, history, opts...),
		cache:   c,
		srv:     srv,
		clock:   clock,
		history: history,
	}
}

func TestGetPokemon_OriginLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.repo.GetPokemon(ctx, "Pikachu")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, first.Origin)
	assert.Equal(t, 25, first.Data.ID)
	assert.Equal(t, 1, f.srv.TotalHits())

	byID, err := f.repo.GetPokemon(ctx, "25")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, byID.Origin)
	assert.Equal(t, "pikachu", byID.Data.Name)
	assert.Equal(t, 1, f.srv.TotalHits(), "id key served from cache")

	f.clock.Advance(cache.DefaultTTL)
	atBoundary, err := f.repo.GetPokemon(ctx, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, atBoundary.Origin)

	f.clock.Advance(time.Millisecond)
	stale, err := f.repo.GetPokemon(ctx, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginInvalid, stale.Origin)
	assert.Equal(t, 2, f.srv.Hits("pokemon/pikachu"))

	refreshed, err := f.repo.GetPokemon(ctx, "25")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, refreshed.Origin, "refetch rewrote both keys")

	assert.Equal(t, []int{25, 25, 25, 25, 25}, f.history.IDs())
}

func TestGetPokemon_DualKeysShareTimestamp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.repo.GetPokemon(context.Background(), "bulbasaur")
	require.NoError(t, err)

	byID := f.cache.Get(cache.KindPokemon, "1")
	byName := f.cache.Get(cache.KindPokemon, "bulbasaur")
	require.NotNil(t, byID)
	require.NotNil(t, byName)
	assert.Equal(t, byID.Timestamp, byName.Timestamp)
	assert.JSONEq(t, string(byID.Data), string(byName.Data))
}

func TestGetPokemon_FetchErrorPropagates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.repo.GetPokemon(context.Background(), "missingno")
	require.Error(t, err)
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)
	assert.Nil(t, f.cache.Get(cache.KindPokemon, "missingno"))
	assert.Empty(t, f.history.IDs())
}

func TestGetPokemon_StaleEntrySurvivesFailedRefetch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.GetPokemon(ctx, "squirtle")
	require.NoError(t, err)
	before := f.cache.Get(cache.KindPokemon, "squirtle")

	f.clock.Advance(cache.DefaultTTL + time.Second)
	f.srv.FailNext("pokemon/squirtle", 1)
	_, err = f.repo.GetPokemon(ctx, "squirtle")
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)

	after := f.cache.Get(cache.KindPokemon, "squirtle")
	require.NotNil(t, after)
	assert.Equal(t, before.Timestamp, after.Timestamp)
}

func TestGetPokemon_UndecodableEntryIsAMiss(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.cache.Put(cache.KindPokemon, "eevee", []byte(`{"id":0}`))
	require.NoError(t, err)

	res, err := f.repo.GetPokemon(context.Background(), "eevee")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, res.Origin)
	assert.Equal(t, 133, res.Data.ID)
	assert.Equal(t, 1, f.srv.Hits("pokemon/eevee"))
}

func TestGetPokemon_HistoryFailureDoesNotFailLookup(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history.err = errors.New("disk full")

	res, err := f.repo.GetPokemon(context.Background(), "pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, res.Data.ID)
}

func TestLookupPokemon_DoesNotRecordHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.repo.LookupPokemon(context.Background(), "charmander")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, res.Origin)
	assert.Empty(t, f.history.IDs())
}

func TestNilHistoryRecorder(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewServer(t)
	api := pokeapi.NewClient(pokeapi.WithBaseURL(srv.BaseURL()))
	repo := New(cache.New(storage.NewMemoryStore()), api, nil)

	_, err := repo.GetPokemon(context.Background(), "pikachu")
	require.NoError(t, err)
}

func TestGetAbility(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.repo.GetAbility(ctx, "Solar Power")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, first.Origin)
	assert.Equal(t, "solar-power", first.Data.Name)

	byID, err := f.repo.GetAbility(ctx, "94")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, byID.Origin)

	dashed, err := f.repo.GetAbility(ctx, "solar-power")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, dashed.Origin)

	assert.Equal(t, 1, f.srv.TotalHits())
	assert.Empty(t, f.history.IDs())
}

func TestGetType_CaseInsensitiveKey(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.repo.GetType(ctx, "Fire")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, res.Origin)
	assert.InDelta(t, 2.0, res.Data.Multiplier([]string{"grass"}), 1e-9)

	stats := f.cache.Stats()
	assert.Equal(t, 1, stats.Kinds[cache.KindType].Entries)

	again, err := f.repo.GetType(ctx, "fire")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, again.Origin)
}

func TestGetType_CachedUnderQuery(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.srv.Put("type/10", `{"id":10,"name":"fire","damage_relations":{"double_damage_to":[{"name":"grass"}]}}`)

	first, err := f.repo.GetType(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, first.Origin)

	again, err := f.repo.GetType(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, again.Origin)

	byName, err := f.repo.GetType(ctx, "fire")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, byName.Origin)

	assert.Equal(t, 1, f.srv.Hits("type/10"))
	assert.Zero(t, f.srv.Hits("type/fire"))
	assert.Equal(t, 2, f.cache.Stats().Kinds[cache.KindType].Entries)
}

func TestGetType_NamelessPayload(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.srv.Put("type/ice", `{"damage_relations":{"double_damage_to":[{"name":"grass"}]}}`)

	res, err := f.repo.GetType(ctx, "Ice")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, res.Origin)
	assert.InDelta(t, 2.0, res.Data.Multiplier([]string{"grass"}), 1e-9)

	again, err := f.repo.GetType(ctx, "ice")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, again.Origin)
	assert.Equal(t, 1, f.srv.Hits("type/ice"))
}

func TestGetPokemon_CachedUnderAlias(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.srv.Put("pokemon/sparky", f.srv.Doc("pokemon/pikachu"))

	first, err := f.repo.LookupPokemon(ctx, "Sparky")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginAPI, first.Origin)
	assert.Equal(t, "pikachu", first.Data.Name)

	again, err := f.repo.LookupPokemon(ctx, "sparky")
	require.NoError(t, err)
	assert.Equal(t, cache.OriginCache, again.Origin)
	assert.Equal(t, 1, f.srv.Hits("pokemon/sparky"))

	removed, err := f.cache.InvalidateEntity(25)
	require.NoError(t, err)
	assert.Equal(t, 3, removed, "alias, id and name keys")
}

func TestEvolution(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.repo.GetPokemon(ctx, "pikachu")
	require.NoError(t, err)

	levels, err := f.repo.Evolution(ctx, res.Data)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, "pichu", levels[0][0].Name)
	assert.Equal(t, 172, levels[0][0].SpeciesID)
	assert.Equal(t, "raichu", levels[2][0].Name)

	_, err = f.repo.Evolution(ctx, res.Data)
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Hits("pokemon-species/25"), "species memoized")
	assert.Equal(t, 1, f.srv.Hits("evolution-chain/10"), "chain memoized")

	stats := f.cache.Stats()
	assert.Equal(t, 2, stats.Kinds[cache.KindPokemon].Entries, "species never persisted")
}

func TestEvolution_Branches(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.repo.LookupPokemon(ctx, "eevee")
	require.NoError(t, err)
	levels, err := f.repo.Evolution(ctx, res.Data)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Len(t, levels[1], 3)
}

func TestEvolution_Unavailable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.repo.LookupPokemon(ctx, "charmander")
	require.NoError(t, err)
	_, err = f.repo.Evolution(ctx, res.Data)
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)
}

func TestEvolution_MemoDisabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t, WithMemoSize(0))
	ctx := context.Background()

	res, err := f.repo.LookupPokemon(ctx, "pikachu")
	require.NoError(t, err)
	for range 2 {
		_, err = f.repo.Evolution(ctx, res.Data)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.srv.Hits("pokemon-species/25"))
}

func TestResolve(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.LookupPokemon(ctx, "pikachu")
	require.NoError(t, err)
	_, err = f.repo.LookupPokemon(ctx, "bulbasaur")
	require.NoError(t, err)
	f.clock.Advance(cache.DefaultTTL + time.Minute)
	_, err = f.repo.LookupPokemon(ctx, "pikachu")
	require.NoError(t, err)

	views := f.repo.Resolve(ctx, []int{25, 1, 7, 9999})
	require.Len(t, views, 4)

	assert.Equal(t, cache.OriginCache, views[0].Origin)
	assert.Equal(t, cache.OriginInvalid, views[1].Origin)
	assert.Equal(t, cache.OriginAPI, views[2].Origin)
	assert.Equal(t, "squirtle", views[2].Pokemon.Name)

	assert.Equal(t, 9999, views[3].ID)
	assert.ErrorIs(t, views[3].Err, pokeapi.ErrNotFound)
	assert.Nil(t, views[3].Pokemon)

	assert.Empty(t, f.history.IDs(), "repair never records history")
}
