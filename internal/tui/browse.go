package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
	listview "github.com/rshade/pokefinder/internal/tui/list"
)

// Entry is one row of a browsable id list.
type Entry struct {
	ID       int
	Pokemon  *pokeapi.Pokemon
	Origin   cache.Origin
	Err      error
	Favorite bool
}

// BrowseFuncs connects the browser to the data layer. Remove may be nil to
// disable removal.
type BrowseFuncs struct {
	Load           func(ctx context.Context) ([]Entry, error)
	Detail         func(ctx context.Context, e Entry) (Card, error)
	ToggleFavorite func(id int) (bool, error)
	Remove         func(id int) error
}

type entriesLoadedMsg struct {
	entries []Entry
	err     error
}

type cardLoadedMsg struct {
	card Card
	err  error
}

type favoriteToggledMsg struct {
	id       int
	favorite bool
	err      error
}

type entryRemovedMsg struct {
	id  int
	err error
}

// BrowseModel is an interactive list of history or favorite Pokémon with a
// detail card view.
type BrowseModel struct {
	ctx   context.Context //nolint:containedctx // Bubble Tea commands run outside the caller's stack.
	title string
	funcs BrowseFuncs
	keys  KeyMap

	state  ViewState
	list   *listview.Model[Entry]
	card   Card
	status string
	err    error

	width  int
	height int
}

// NewBrowseModel creates a browser. Data is loaded by Init.
func NewBrowseModel(ctx context.Context, title string, funcs BrowseFuncs) *BrowseModel {
	return &BrowseModel{
		ctx:    ctx,
		title:  title,
		funcs:  funcs,
		keys:   DefaultKeyMap(),
		state:  ViewStateLoading,
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// State returns the current screen.
func (m *BrowseModel) State() ViewState {
	return m.state
}

// Entries returns the rows currently listed.
func (m *BrowseModel) Entries() []Entry {
	if m.list == nil {
		return nil
	}
	return m.list.Items()
}

// Init starts loading the entries.
func (m *BrowseModel) Init() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.funcs.Load(m.ctx)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.list != nil {
			m.list.Update(tea.WindowSizeMsg{Width: m.width, Height: m.listHeight()})
		}
		return m, nil
	case entriesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = ViewStateError
			return m, nil
		}
		m.list = listview.New(msg.entries, m.listHeight(), m.width, listview.Keys{
			Up:       m.keys.Up,
			Down:     m.keys.Down,
			PageUp:   m.keys.PageUp,
			PageDown: m.keys.PageDown,
			Home:     m.keys.Home,
			End:      m.keys.End,
		}, renderEntry)
		m.state = ViewStateList
		return m, nil
	case cardLoadedMsg:
		if msg.err != nil {
			m.status = "lookup failed: " + msg.err.Error()
			return m, nil
		}
		m.card = msg.card
		m.status = ""
		m.state = ViewStateDetail
		return m, nil
	case favoriteToggledMsg:
		m.applyFavorite(msg)
		return m, nil
	case entryRemovedMsg:
		if msg.err != nil {
			m.status = "remove failed: " + msg.err.Error()
			return m, nil
		}
		if sel := m.list.SelectedItem(); sel != nil && sel.ID == msg.id {
			m.list.RemoveSelected()
		}
		m.status = fmt.Sprintf("removed #%d", msg.id)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateList:
		return m.handleListKey(msg)
	case ViewStateDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = ViewStateList
		case key.Matches(msg, m.keys.Favorite):
			return m, m.toggleFavorite(m.card.Pokemon.ID)
		}
	case ViewStateLoading, ViewStateError, ViewStateQuitting:
	}
	return m, nil
}

func (m *BrowseModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.list.SelectedItem()
	switch {
	case key.Matches(msg, m.keys.Open):
		if sel == nil {
			return m, nil
		}
		entry := *sel
		return m, func() tea.Msg {
			card, err := m.funcs.Detail(m.ctx, entry)
			return cardLoadedMsg{card: card, err: err}
		}
	case key.Matches(msg, m.keys.Favorite):
		if sel == nil {
			return m, nil
		}
		return m, m.toggleFavorite(sel.ID)
	case key.Matches(msg, m.keys.Remove):
		if sel == nil || m.funcs.Remove == nil {
			return m, nil
		}
		id := sel.ID
		return m, func() tea.Msg {
			return entryRemovedMsg{id: id, err: m.funcs.Remove(id)}
		}
	}
	m.list.Update(msg)
	return m, nil
}

func (m *BrowseModel) toggleFavorite(id int) tea.Cmd {
	return func() tea.Msg {
		fav, err := m.funcs.ToggleFavorite(id)
		return favoriteToggledMsg{id: id, favorite: fav, err: err}
	}
}

func (m *BrowseModel) applyFavorite(msg favoriteToggledMsg) {
	if msg.err != nil {
		m.status = "favorite failed: " + msg.err.Error()
		return
	}
	items := m.list.Items()
	for i := range items {
		if items[i].ID == msg.id {
			items[i].Favorite = msg.favorite
		}
	}
	if m.card.Pokemon != nil && m.card.Pokemon.ID == msg.id {
		m.card.Favorite = msg.favorite
	}
	if msg.favorite {
		m.status = fmt.Sprintf("added #%d to favorites", msg.id)
	} else {
		m.status = fmt.Sprintf("removed #%d from favorites", msg.id)
	}
}

func (m *BrowseModel) listHeight() int {
	return max(m.height-headerHeight-1, minHeight)
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(ColorHeader).Render(m.title)

	var body, help string
	switch m.state {
	case ViewStateLoading:
		body = "Loading..."
	case ViewStateError:
		body = lipgloss.NewStyle().Foreground(ColorError).Render("Error: " + m.err.Error())
		help = helpLine(m.keys.Quit)
	case ViewStateDetail:
		body = RenderCard(m.card, m.width)
		help = helpLine(m.keys.Back, m.keys.Favorite, m.keys.Quit)
	case ViewStateList:
		if m.list.ItemCount() == 0 {
			body = lipgloss.NewStyle().Foreground(ColorMuted).Render("Nothing here yet.")
		} else {
			body = m.list.View()
		}
		bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Favorite}
		if m.funcs.Remove != nil {
			bindings = append(bindings, m.keys.Remove)
		}
		help = helpLine(append(bindings, m.keys.Quit)...)
	case ViewStateQuitting:
		return ""
	}

	parts := []string{header, ""}
	parts = append(parts, body)
	if m.status != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(ColorMuted).Render(m.status))
	}
	if help != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(ColorLabel).Render(help))
	}
	return strings.Join(parts, "\n")
}

func renderEntry(e Entry, selected bool) string {
	heart := " "
	if e.Favorite {
		heart = "♥"
	}
	row := heart + " " + Row(e.ID, e.Pokemon, e.Origin, e.Err)
	if selected {
		return lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Background(ColorSelected).
			Render(row)
	}
	return row
}
