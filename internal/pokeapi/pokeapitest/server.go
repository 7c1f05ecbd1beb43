// Package pokeapitest serves a small fixed PokeAPI dataset over httptest for
// tests of packages that sit on top of the client.
package pokeapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Server is a fake PokeAPI with per-path hit counting.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	failures map[string]int
	docs     map[string]any
}

// mon describes a fixture Pokémon.
type mon struct {
	id    int
	name  string
	types []string
	stats []int
}

// baseToken is replaced with the server's API root when a document is served.
const baseToken = "__BASE__"

var mons = []mon{
	{1, "bulbasaur", []string{"grass", "poison"}, []int{45, 49, 49, 65, 65, 45}},
	{4, "charmander", []string{"fire"}, []int{39, 52, 43, 60, 50, 65}},
	{7, "squirtle", []string{"water"}, []int{44, 48, 65, 50, 64, 43}},
	{25, "pikachu", []string{"electric"}, []int{35, 55, 40, 50, 50, 90}},
	{26, "raichu", []string{"electric"}, []int{60, 90, 55, 90, 80, 110}},
	{172, "pichu", []string{"electric"}, []int{20, 40, 15, 35, 35, 60}},
	{133, "eevee", []string{"normal"}, []int{55, 55, 50, 45, 65, 55}},
}

var statNames = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// typeChart lists double/half/no damage targets for the fixture types.
var typeChart = map[string][3][]string{
	"electric": {{"water", "flying"}, {"electric", "grass", "dragon"}, {"ground"}},
	"fire":     {{"grass", "ice", "bug", "steel"}, {"fire", "water", "rock", "dragon"}, nil},
	"water":    {{"fire", "ground", "rock"}, {"water", "grass", "dragon"}, nil},
	"grass":    {{"water", "ground", "rock"}, {"fire", "grass", "poison", "flying", "bug", "dragon", "steel"}, nil},
	"normal":   {nil, {"rock", "steel"}, {"ghost"}},
	"poison":   {{"grass", "fairy"}, {"poison", "ground", "rock", "ghost"}, {"steel"}},
}

// NewServer starts the fake API. It is closed by t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		hits:     make(map[string]int),
		failures: make(map[string]int),
		docs:     make(map[string]any),
	}
	s.seed()
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to pokeapi.WithBaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v2/"
}

// Hits returns how many requests reached path (for example "pokemon/25").
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// FailNext makes the next n requests for path answer 500.
func (s *Server) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

// Put installs or replaces a raw document served at path.
func (s *Server) Put(path string, doc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = doc
}

// Doc returns the document served at path, or nil.
func (s *Server) Doc(path string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[path]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v2/"), "/")

	s.mu.Lock()
	s.hits[path]++
	fail := s.failures[path] > 0
	if fail {
		s.failures[path]--
	}
	doc, ok := s.docs[path]
	s.mu.Unlock()

	if fail {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, isRaw := doc.(string)
	if !isRaw {
		encoded, err := json.Marshal(doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		body = string(encoded)
	}
	// Embedded resource URLs point back at this server.
	body = strings.ReplaceAll(body, baseToken, strings.TrimSuffix(s.BaseURL(), "/"))

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (s *Server) seed() {
	for _, m := range mons {
		doc := pokemonDoc(m)
		s.docs[fmt.Sprintf("pokemon/%d", m.id)] = doc
		s.docs["pokemon/"+m.name] = doc

		species := map[string]any{
			"id":   m.id,
			"name": m.name,
			"evolution_chain": map[string]any{
				"url": baseToken + "/evolution-chain/" + chainFor(m.name) + "/",
			},
		}
		s.docs[fmt.Sprintf("pokemon-species/%d", m.id)] = species
		s.docs["pokemon-species/"+m.name] = species
	}

	for name, rel := range typeChart {
		s.docs["type/"+name] = map[string]any{
			"id":   len(name),
			"name": name,
			"damage_relations": map[string]any{
				"double_damage_to": named(rel[0]),
				"half_damage_to":   named(rel[1]),
				"no_damage_to":     named(rel[2]),
			},
		}
	}

	static := map[string]any{
		"id":   9,
		"name": "static",
		"effect_entries": []map[string]any{
			{"effect": "Peut paralyser.", "short_effect": "", "language": map[string]string{"name": "fr"}},
			{"effect": "Contact may paralyze the attacker.", "short_effect": "May paralyze.", "language": map[string]string{"name": "en"}},
		},
		"pokemon": []map[string]any{
			{"pokemon": map[string]string{"name": "pikachu", "url": "x/pokemon/25/"}, "is_hidden": false},
			{"pokemon": map[string]string{"name": "raichu", "url": "x/pokemon/26/"}, "is_hidden": false},
		},
	}
	s.docs["ability/9"] = static
	s.docs["ability/static"] = static

	solar := map[string]any{
		"id":             94,
		"name":           "solar-power",
		"effect_entries": []map[string]any{},
		"pokemon":        []map[string]any{},
	}
	s.docs["ability/94"] = solar
	s.docs["ability/solar-power"] = solar

	s.docs["evolution-chain/10"] = map[string]any{
		"id": 10,
		"chain": link("pichu", 172,
			link("pikachu", 25,
				link("raichu", 26))),
	}
	s.docs["evolution-chain/67"] = map[string]any{
		"id": 67,
		"chain": link("eevee", 133,
			link("vaporeon", 134), link("jolteon", 135), link("flareon", 136)),
	}
	s.docs["evolution-chain/1"] = map[string]any{
		"id":    1,
		"chain": link("bulbasaur", 1, link("ivysaur", 2, link("venusaur", 3))),
	}
}

// chainFor maps fixture species to chain ids. Charmander and squirtle point
// at a chain that is not served, to exercise the unavailable path.
func chainFor(name string) string {
	switch name {
	case "pichu", "pikachu", "raichu":
		return "10"
	case "eevee":
		return "67"
	case "bulbasaur":
		return "1"
	default:
		return "404"
	}
}

func pokemonDoc(m mon) map[string]any {
	types := make([]map[string]any, 0, len(m.types))
	for i, t := range m.types {
		types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": t}})
	}
	stats := make([]map[string]any, 0, len(m.stats))
	for i, v := range m.stats {
		stats = append(stats, map[string]any{"base_stat": v, "stat": map[string]string{"name": statNames[i]}})
	}
	return map[string]any{
		"id":   m.id,
		"name": m.name,
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("https://img.example/%d.png", m.id),
			"other": map[string]any{
				"official-artwork": map[string]string{
					"front_default": fmt.Sprintf("https://img.example/art/%d.png", m.id),
				},
			},
		},
		"types":     types,
		"abilities": []map[string]any{{"ability": map[string]string{"name": "static"}, "is_hidden": false}},
		"stats":     stats,
		"species":   map[string]string{"name": m.name, "url": fmt.Sprintf(baseToken+"/pokemon-species/%d/", m.id)},
	}
}

func link(name string, id int, evolvesTo ...map[string]any) map[string]any {
	if evolvesTo == nil {
		evolvesTo = []map[string]any{}
	}
	return map[string]any{
		"species":    map[string]string{"name": name, "url": fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", id)},
		"evolves_to": evolvesTo,
	}
}

func named(names []string) []map[string]string {
	out := make([]map[string]string, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]string{"name": n})
	}
	return out
}

// Total returns the fixture base-stat total for name.
func Total(name string) int {
	for _, m := range mons {
		if m.name == name {
			total := 0
			for _, v := range m.stats {
				total += v
			}
			return total
		}
	}
	return 0
}
