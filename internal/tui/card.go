package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

// Stat bars are scaled against this base stat.
const (
	statBarMax   = 200
	statBarWidth = 24
	cardWidth    = 56
)

// Title turns an API slug ("solar-power") into display text ("Solar Power").
func Title(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// StatPercent is base as a percentage of 200, capped at 100.
func StatPercent(base int) int {
	if base <= 0 {
		return 0
	}
	return min(base*100/statBarMax, 100)
}

// Bar draws a fixed-width bar filled to percent.
func Bar(percent, width int) string {
	filled := width * min(max(percent, 0), 100) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Card is everything the Pokémon card shows.
type Card struct {
	Pokemon      *pokeapi.Pokemon
	Origin       cache.Origin
	Favorite     bool
	Evolution    [][]pokeapi.Stage
	EvolutionErr error
}

// RenderCard draws a bordered Pokémon card.
func RenderCard(c Card, width int) string {
	if c.Pokemon == nil {
		return ""
	}
	if width <= 0 || width > cardWidth {
		width = cardWidth
	}
	p := c.Pokemon

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	barStyle := lipgloss.NewStyle().Foreground(ColorBarFill)

	var b strings.Builder

	heart := "♡"
	if c.Favorite {
		heart = lipgloss.NewStyle().Foreground(ColorFavorite).Render("♥")
	}
	fmt.Fprintf(&b, "%s %s  %s\n",
		titleStyle.Render(fmt.Sprintf("#%d %s", p.ID, strings.ToUpper(p.Name))),
		heart,
		OriginBadge(c.Origin))

	badges := make([]string, 0, len(p.Types))
	for _, t := range p.TypeNames() {
		badges = append(badges, TypeBadge(t))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Types:"), strings.Join(badges, " "))

	abilities := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		name := Title(a.Ability.Name)
		if a.IsHidden {
			name += " (hidden)"
		}
		abilities = append(abilities, name)
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Abilities:"), valueStyle.Render(strings.Join(abilities, ", ")))
	if art := p.Artwork(); art != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Artwork:"), mutedStyle.Render(art))
	}

	b.WriteString("\n")
	for _, s := range p.Stats {
		fmt.Fprintf(&b, "%-16s %4d %s\n",
			labelStyle.Render(Title(s.Stat.Name)),
			s.BaseStat,
			barStyle.Render(Bar(StatPercent(s.BaseStat), statBarWidth)))
	}
	fmt.Fprintf(&b, "%-16s %4d\n", labelStyle.Render("Total"), p.BaseStatTotal())

	b.WriteString("\n" + labelStyle.Render("Evolution:") + "\n")
	b.WriteString(renderEvolution(c, mutedStyle, valueStyle))

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Width(width)
	return box.Render(strings.TrimRight(b.String(), "\n"))
}

func renderEvolution(c Card, muted, current lipgloss.Style) string {
	if c.EvolutionErr != nil || len(c.Evolution) == 0 {
		return muted.Render("  evolution unavailable")
	}
	levels := make([]string, 0, len(c.Evolution))
	for _, level := range c.Evolution {
		names := make([]string, 0, len(level))
		for _, st := range level {
			name := Title(st.Name)
			if st.Name == c.Pokemon.Species.Name || st.Name == c.Pokemon.Name {
				name = current.Render(name)
			}
			names = append(names, name)
		}
		levels = append(levels, strings.Join(names, " | "))
	}
	return "  " + strings.Join(levels, " → ")
}

// TypeBadge renders a type name on its type color.
func TypeBadge(name string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(TypeColor(name)).
		Padding(0, 1).
		Render(strings.ToUpper(name))
}

// OriginBadge renders the provenance label of a result.
func OriginBadge(o cache.Origin) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(originColor(string(o))).
		Render("[" + o.Label() + "]")
}

// Row renders a one-line summary used in lists.
func Row(id int, p *pokeapi.Pokemon, origin cache.Origin, err error) string {
	if err != nil {
		return fmt.Sprintf("#%-5d %s", id, lipgloss.NewStyle().Foreground(ColorError).Render("lookup failed: "+err.Error()))
	}
	if p == nil {
		return "#" + strconv.Itoa(id)
	}
	return fmt.Sprintf("#%-5d %-14s %-18s %s", p.ID, Title(p.Name), strings.Join(p.TypeNames(), "/"), OriginBadge(origin))
}
