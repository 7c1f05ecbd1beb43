package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the card renderer and the browser.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("229")
	ColorSelected  = lipgloss.Color("57")
	ColorError     = lipgloss.Color("196")
	ColorFavorite  = lipgloss.Color("204")
	ColorBarFill   = lipgloss.Color("42")
	ColorBorder    = lipgloss.Color("240")
)

// typeColors follows the in-game type palette.
//
//nolint:gochecknoglobals // Lookup table.
var typeColors = map[string]lipgloss.Color{
	"normal":   "#A8A77A",
	"fire":     "#EE8130",
	"water":    "#6390F0",
	"electric": "#F7D02C",
	"grass":    "#7AC74C",
	"ice":      "#96D9D6",
	"fighting": "#C22E28",
	"poison":   "#A33EA1",
	"ground":   "#E2BF65",
	"flying":   "#A98FF3",
	"psychic":  "#F95587",
	"bug":      "#A6B91A",
	"rock":     "#B6A136",
	"ghost":    "#735797",
	"dragon":   "#6F35FC",
	"dark":     "#705746",
	"steel":    "#B7B7CE",
	"fairy":    "#D685AD",
}

// TypeColor returns the badge color for a type name.
func TypeColor(name string) lipgloss.Color {
	if c, ok := typeColors[name]; ok {
		return c
	}
	return ColorMuted
}

// originColor maps an origin to its badge color.
func originColor(origin string) lipgloss.Color {
	switch origin {
	case "cache":
		return lipgloss.Color("42")
	case "invalid":
		return lipgloss.Color("214")
	default:
		return lipgloss.Color("39")
	}
}
