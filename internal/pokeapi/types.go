package pokeapi

import (
	"errors"
	"slices"
	"strings"
)

// NamedResource is PokeAPI's {name, url} reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Pokemon is the subset of /pokemon/{id} the client consumes.
type Pokemon struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Sprites   Sprites          `json:"sprites"`
	Types     []PokemonType    `json:"types"`
	Abilities []PokemonAbility `json:"abilities"`
	Stats     []PokemonStat    `json:"stats"`
	Species   NamedResource    `json:"species"`
}

// Sprites holds image URLs.
type Sprites struct {
	FrontDefault string        `json:"front_default"`
	Other        *OtherSprites `json:"other,omitempty"`
}

// OtherSprites holds alternative artwork.
type OtherSprites struct {
	OfficialArtwork struct {
		FrontDefault string `json:"front_default"`
	} `json:"official-artwork"`
}

// PokemonType is one of a Pokémon's types.
type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// PokemonAbility is one of a Pokémon's abilities.
type PokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
}

// PokemonStat is a base stat.
type PokemonStat struct {
	Stat     NamedResource `json:"stat"`
	BaseStat int           `json:"base_stat"`
}

// Validate rejects payloads missing identity fields. It is safe on a nil
// receiver, which is what a JSON null decodes to.
func (p *Pokemon) Validate() error {
	if p == nil || p.ID <= 0 || p.Name == "" {
		return errors.New("pokemon payload missing id or name")
	}
	return nil
}

// BaseStatTotal sums every base stat.
func (p *Pokemon) BaseStatTotal() int {
	total := 0
	for _, s := range p.Stats {
		total += s.BaseStat
	}
	return total
}

// TypeNames returns the type names ordered by slot.
func (p *Pokemon) TypeNames() []string {
	types := slices.Clone(p.Types)
	slices.SortStableFunc(types, func(a, b PokemonType) int { return a.Slot - b.Slot })

	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Type.Name)
	}
	return names
}

// PrimaryType returns the first-slot type name, or "".
func (p *Pokemon) PrimaryType() string {
	if names := p.TypeNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// Artwork prefers the official artwork over the default sprite.
func (p *Pokemon) Artwork() string {
	if p.Sprites.Other != nil && p.Sprites.Other.OfficialArtwork.FrontDefault != "" {
		return p.Sprites.Other.OfficialArtwork.FrontDefault
	}
	return p.Sprites.FrontDefault
}

// Ability is the subset of /ability/{id} the client consumes.
type Ability struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	EffectEntries []EffectEntry    `json:"effect_entries"`
	Pokemon       []AbilityPokemon `json:"pokemon"`
}

// EffectEntry is a localized effect description.
type EffectEntry struct {
	Effect      string        `json:"effect"`
	ShortEffect string        `json:"short_effect"`
	Language    NamedResource `json:"language"`
}

// AbilityPokemon is a Pokémon that can have the ability.
type AbilityPokemon struct {
	Pokemon  NamedResource `json:"pokemon"`
	IsHidden bool          `json:"is_hidden"`
}

// Validate rejects payloads missing identity fields.
func (a *Ability) Validate() error {
	if a == nil || a.ID <= 0 || a.Name == "" {
		return errors.New("ability payload missing id or name")
	}
	return nil
}

// Effect returns the effect text in lang, falling back to the short effect.
// It returns "" when no entry exists for lang.
func (a *Ability) Effect(lang string) string {
	for _, e := range a.EffectEntries {
		if !strings.EqualFold(e.Language.Name, lang) {
			continue
		}
		if e.Effect != "" {
			return e.Effect
		}
		return e.ShortEffect
	}
	return ""
}

// PokemonNames lists the names of Pokémon with this ability.
func (a *Ability) PokemonNames() []string {
	names := make([]string, 0, len(a.Pokemon))
	for _, p := range a.Pokemon {
		names = append(names, p.Pokemon.Name)
	}
	return names
}

// TypeDetail is the subset of /type/{name} the client consumes.
type TypeDetail struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	DamageRelations *DamageRelations `json:"damage_relations"`
}

// DamageRelations lists attacking effectiveness of a type.
type DamageRelations struct {
	DoubleDamageTo []NamedResource `json:"double_damage_to"`
	HalfDamageTo   []NamedResource `json:"half_damage_to"`
	NoDamageTo     []NamedResource `json:"no_damage_to"`
}

// Validate rejects payloads without damage relations.
func (t *TypeDetail) Validate() error {
	if t == nil || t.DamageRelations == nil {
		return errors.New("type payload missing damage_relations")
	}
	return nil
}

// Effectiveness multipliers.
const (
	superEffective   = 2.0
	notVeryEffective = 0.5
	noEffect         = 0.0
	neutral          = 1.0
)

// Multiplier returns the damage multiplier of this type attacking a defender
// with the given types: the product of the per-type multipliers.
func (t *TypeDetail) Multiplier(defenderTypes []string) float64 {
	m := neutral
	if t.DamageRelations == nil {
		return m
	}
	for _, def := range defenderTypes {
		switch {
		case containsName(t.DamageRelations.NoDamageTo, def):
			m *= noEffect
		case containsName(t.DamageRelations.DoubleDamageTo, def):
			m *= superEffective
		case containsName(t.DamageRelations.HalfDamageTo, def):
			m *= notVeryEffective
		}
	}
	return m
}

func containsName(list []NamedResource, name string) bool {
	return slices.ContainsFunc(list, func(r NamedResource) bool { return r.Name == name })
}

// Species is the subset of /pokemon-species/{id} the client consumes.
type Species struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	EvolutionChain *APIResource `json:"evolution_chain"`
}

// APIResource is PokeAPI's {url} reference.
type APIResource struct {
	URL string `json:"url"`
}

// Validate rejects species without an evolution chain link.
func (s *Species) Validate() error {
	if s == nil || s.EvolutionChain == nil || s.EvolutionChain.URL == "" {
		return errors.New("species payload missing evolution_chain.url")
	}
	return nil
}

// EvolutionChain is /evolution-chain/{id}.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is a node of the evolution tree.
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}

// Validate rejects chains without a root species.
func (c *EvolutionChain) Validate() error {
	if c == nil || c.Chain.Species.Name == "" {
		return errors.New("evolution chain missing root species")
	}
	return nil
}
