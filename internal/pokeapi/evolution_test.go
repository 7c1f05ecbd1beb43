package pokeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func chainNode(name, url string, next ...ChainLink) ChainLink {
	return ChainLink{Species: NamedResource{Name: name, URL: url}, EvolvesTo: next}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	t.Run("linear chain", func(t *testing.T) {
		t.Parallel()
		root := chainNode("pichu", "https://pokeapi.co/api/v2/pokemon-species/172/",
			chainNode("pikachu", "https://pokeapi.co/api/v2/pokemon-species/25/",
				chainNode("raichu", "https://pokeapi.co/api/v2/pokemon-species/26/")))

		levels := Levels(root)
		assert.Len(t, levels, 3)
		assert.Equal(t, Stage{
			Name:      "pikachu",
			SpeciesID: 25,
			SpriteURL: SpriteBaseURL + "25.png",
		}, levels[1][0])
	})

	t.Run("branches share a level", func(t *testing.T) {
		t.Parallel()
		root := chainNode("eevee", "x/133/",
			chainNode("vaporeon", "x/134/"),
			chainNode("jolteon", "x/135/"),
			chainNode("flareon", "x/136/"))

		levels := Levels(root)
		assert.Len(t, levels, 2)
		names := []string{}
		for _, st := range levels[1] {
			names = append(names, st.Name)
		}
		assert.Equal(t, []string{"vaporeon", "jolteon", "flareon"}, names)
	})

	t.Run("uneven depth", func(t *testing.T) {
		t.Parallel()
		root := chainNode("a", "",
			chainNode("b", "", chainNode("d", "")),
			chainNode("c", ""))

		levels := Levels(root)
		assert.Len(t, levels, 3)
		assert.Len(t, levels[1], 2)
		assert.Equal(t, "d", levels[2][0].Name)
		assert.Zero(t, levels[2][0].SpeciesID)
		assert.Empty(t, levels[2][0].SpriteURL)
	})
}

func TestSpeciesIDFromURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url string
		id  int
		ok  bool
	}{
		{"https://pokeapi.co/api/v2/pokemon-species/25/", 25, true},
		{"https://pokeapi.co/api/v2/pokemon-species/133", 133, true},
		{"https://pokeapi.co/api/v2/pokemon-species/", 0, false},
		{"", 0, false},
		{"x/0/", 0, false},
		{"x/eevee/", 0, false},
	}
	for _, tt := range tests {
		id, ok := SpeciesIDFromURL(tt.url)
		assert.Equal(t, tt.id, id, tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
	}
}
