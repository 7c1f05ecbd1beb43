package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

func testPokemon() *pokeapi.Pokemon {
	return &pokeapi.Pokemon{
		ID:   25,
		Name: "pikachu",
		Types: []pokeapi.PokemonType{
			{Slot: 1, Type: pokeapi.NamedResource{Name: "electric"}},
		},
		Abilities: []pokeapi.PokemonAbility{
			{Ability: pokeapi.NamedResource{Name: "static"}},
			{Ability: pokeapi.NamedResource{Name: "lightning-rod"}, IsHidden: true},
		},
		Stats: []pokeapi.PokemonStat{
			{Stat: pokeapi.NamedResource{Name: "hp"}, BaseStat: 35},
			{Stat: pokeapi.NamedResource{Name: "speed"}, BaseStat: 90},
		},
		Species: pokeapi.NamedResource{Name: "pikachu"},
	}
}

func TestStatPercent(t *testing.T) {
	tests := []struct {
		base int
		want int
	}{
		{0, 0},
		{-5, 0},
		{50, 25},
		{100, 50},
		{200, 100},
		{255, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatPercent(tt.base), "base %d", tt.base)
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "██░░", Bar(50, 4))
	assert.Equal(t, "░░░░", Bar(-10, 4))
	assert.Equal(t, "████", Bar(150, 4))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Solar Power", Title("solar-power"))
	assert.Equal(t, "Hp", Title("hp"))
}

func TestRenderCard(t *testing.T) {
	out := RenderCard(Card{
		Pokemon: testPokemon(),
		Origin:  cache.OriginCache,
		Evolution: [][]pokeapi.Stage{
			{{Name: "pichu"}},
			{{Name: "pikachu"}},
			{{Name: "raichu"}},
		},
	}, 0)

	assert.Contains(t, out, "#25 PIKACHU")
	assert.Contains(t, out, "ELECTRIC")
	assert.Contains(t, out, "Lightning Rod (hidden)")
	assert.Contains(t, out, cache.OriginCache.Label())
	assert.Contains(t, out, "Pichu")
	assert.Contains(t, out, "Raichu")
	assert.Contains(t, out, "125")
}

func TestRenderCardEvolutionUnavailable(t *testing.T) {
	out := RenderCard(Card{
		Pokemon:      testPokemon(),
		Origin:       cache.OriginAPI,
		EvolutionErr: errors.New("chain missing"),
	}, 40)
	assert.Contains(t, out, "evolution unavailable")
}

func TestRenderCardNil(t *testing.T) {
	assert.Empty(t, RenderCard(Card{}, 80))
}

func TestRow(t *testing.T) {
	assert.Contains(t, Row(25, testPokemon(), cache.OriginAPI, nil), "Pikachu")
	assert.Contains(t, Row(9999, nil, "", errors.New("not found")), "lookup failed: not found")
	assert.Equal(t, "#7", Row(7, nil, "", nil))
}
