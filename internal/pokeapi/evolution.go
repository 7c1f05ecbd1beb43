package pokeapi

import (
	"strconv"
	"strings"
)

// SpriteBaseURL serves default sprites by national dex number.
const SpriteBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/"

// Stage is one species in an evolution line.
type Stage struct {
	Name      string `json:"name"`
	SpeciesID int    `json:"species_id,omitempty"`
	SpriteURL string `json:"sprite_url,omitempty"`
}

// Levels flattens an evolution tree breadth-first: element 0 holds the root,
// element 1 every direct evolution, and so on. Branches (Eevee) share a level.
func Levels(root ChainLink) [][]Stage {
	var levels [][]Stage
	frontier := []ChainLink{root}

	for len(frontier) > 0 {
		level := make([]Stage, 0, len(frontier))
		var next []ChainLink
		for _, node := range frontier {
			level = append(level, stageOf(node))
			next = append(next, node.EvolvesTo...)
		}
		levels = append(levels, level)
		frontier = next
	}
	return levels
}

func stageOf(node ChainLink) Stage {
	st := Stage{Name: node.Species.Name}
	if id, ok := SpeciesIDFromURL(node.Species.URL); ok {
		st.SpeciesID = id
		st.SpriteURL = SpriteBaseURL + strconv.Itoa(id) + ".png"
	}
	return st
}

// SpeciesIDFromURL parses the trailing numeric path segment of a resource
// URL such as https://pokeapi.co/api/v2/pokemon-species/25/.
func SpeciesIDFromURL(u string) (int, bool) {
	segments := strings.FieldsFunc(u, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(segments[len(segments)-1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
