// Package listview is a windowed list for Bubble Tea models. Only the rows
// around the viewport are rendered, so long histories scroll without
// rendering every entry.
package listview
