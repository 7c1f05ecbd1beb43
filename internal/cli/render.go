package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
	"github.com/rshade/pokefinder/internal/tui"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isWriterTerminal reports whether w is a terminal. Buffers used in tests
// are not.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// isReaderTerminal reports whether r is an interactive terminal.
func isReaderTerminal(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// pokemonOutput is the JSON shape of a search result.
type pokemonOutput struct {
	Pokemon        *pokeapi.Pokemon  `json:"pokemon"`
	Origin         cache.Origin      `json:"origin"`
	Favorite       bool              `json:"favorite"`
	BaseStatTotal  int               `json:"base_stat_total"`
	Evolution      [][]pokeapi.Stage `json:"evolution,omitempty"`
	EvolutionError string            `json:"evolution_error,omitempty"`
}

// renderCard writes a Pokémon card, styled on a terminal and plain otherwise.
func renderCard(w io.Writer, c tui.Card) {
	if isWriterTerminal(w) {
		fmt.Fprintln(w, tui.RenderCard(c, 0))
		return
	}
	renderPlainCard(w, c)
}

func renderPlainCard(w io.Writer, c tui.Card) {
	p := c.Pokemon
	pr := newPrinter()

	fav := ""
	if c.Favorite {
		fav = " ♥"
	}
	fmt.Fprintf(w, "#%d %s%s [%s]\n", p.ID, strings.ToUpper(p.Name), fav, c.Origin.Label())
	fmt.Fprintf(w, "Types: %s\n", strings.Join(p.TypeNames(), ", "))

	abilities := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		name := tui.Title(a.Ability.Name)
		if a.IsHidden {
			name += " (hidden)"
		}
		abilities = append(abilities, name)
	}
	fmt.Fprintf(w, "Abilities: %s\n", strings.Join(abilities, ", "))
	if art := p.Artwork(); art != "" {
		fmt.Fprintf(w, "Artwork: %s\n", art)
	}

	fmt.Fprintln(w, "Stats:")
	for _, s := range p.Stats {
		pr.Fprintf(w, "  %-16s %4d %3d%%\n", tui.Title(s.Stat.Name), s.BaseStat, tui.StatPercent(s.BaseStat))
	}
	pr.Fprintf(w, "  %-16s %4d\n", "Total", p.BaseStatTotal())

	fmt.Fprint(w, "Evolution: ")
	if c.EvolutionErr != nil || len(c.Evolution) == 0 {
		fmt.Fprintln(w, "evolution unavailable")
		return
	}
	levels := make([]string, 0, len(c.Evolution))
	for _, level := range c.Evolution {
		names := make([]string, 0, len(level))
		for _, st := range level {
			names = append(names, tui.Title(st.Name))
		}
		levels = append(levels, strings.Join(names, " | "))
	}
	fmt.Fprintln(w, strings.Join(levels, " -> "))
}

// renderAbility writes an ability summary.
func renderAbility(w io.Writer, a *pokeapi.Ability, origin cache.Origin) {
	fmt.Fprintf(w, "#%d %s [%s]\n", a.ID, tui.Title(a.Name), origin.Label())
	effect := a.Effect("en")
	if effect == "" {
		effect = "No description available."
	}
	fmt.Fprintf(w, "Effect: %s\n", strings.Join(strings.Fields(effect), " "))

	names := a.PokemonNames()
	if len(names) == 0 {
		fmt.Fprintln(w, "Pokémon: none")
		return
	}
	titled := make([]string, 0, len(names))
	for _, n := range names {
		titled = append(titled, tui.Title(n))
	}
	fmt.Fprintf(w, "Pokémon (%d): %s\n", len(names), strings.Join(titled, ", "))
}

// renderType writes the attacking damage relations of a type.
func renderType(w io.Writer, t *pokeapi.TypeDetail, origin cache.Origin) {
	fmt.Fprintf(w, "%s [%s]\n", strings.ToUpper(t.Name), origin.Label())
	rel := t.DamageRelations
	fmt.Fprintf(w, "  2x against:   %s\n", joinNames(rel.DoubleDamageTo))
	fmt.Fprintf(w, "  0.5x against: %s\n", joinNames(rel.HalfDamageTo))
	fmt.Fprintf(w, "  0x against:   %s\n", joinNames(rel.NoDamageTo))
}

func joinNames(list []pokeapi.NamedResource) string {
	if len(list) == 0 {
		return "-"
	}
	names := make([]string, 0, len(list))
	for _, r := range list {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
