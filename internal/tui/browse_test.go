package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/pokeapi"
)

type fakeData struct {
	entries   []Entry
	loadErr   error
	favorites map[int]bool
	removed   []int
	details   int
}

func (f *fakeData) funcs(withRemove bool) BrowseFuncs {
	funcs := BrowseFuncs{
		Load: func(context.Context) ([]Entry, error) {
			return f.entries, f.loadErr
		},
		Detail: func(_ context.Context, e Entry) (Card, error) {
			f.details++
			if e.Err != nil {
				return Card{}, e.Err
			}
			return Card{Pokemon: e.Pokemon, Origin: e.Origin, Favorite: f.favorites[e.ID]}, nil
		},
		ToggleFavorite: func(id int) (bool, error) {
			f.favorites[id] = !f.favorites[id]
			return f.favorites[id], nil
		},
	}
	if withRemove {
		funcs.Remove = func(id int) error {
			f.removed = append(f.removed, id)
			return nil
		}
	}
	return funcs
}

func newFakeData() *fakeData {
	return &fakeData{
		favorites: map[int]bool{},
		entries: []Entry{
			{ID: 25, Pokemon: &pokeapi.Pokemon{ID: 25, Name: "pikachu"}, Origin: cache.OriginCache},
			{ID: 4, Pokemon: &pokeapi.Pokemon{ID: 4, Name: "charmander"}, Origin: cache.OriginAPI},
			{ID: 9999, Err: errors.New("not found")},
		},
	}
}

// run feeds msg to the model and then drains the returned commands.
func run(t *testing.T, m *BrowseModel, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	for cmd != nil {
		next := cmd()
		if _, quit := next.(tea.QuitMsg); quit {
			return
		}
		_, cmd = m.Update(next)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, data *fakeData, withRemove bool) *BrowseModel {
	t.Helper()
	m := NewBrowseModel(context.Background(), "History", data.funcs(withRemove))
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading")
	run(t, m, m.Init()())
	require.Equal(t, ViewStateList, m.State())
	return m
}

func TestBrowseLoadsList(t *testing.T) {
	m := loaded(t, newFakeData(), true)

	view := m.View()
	assert.Contains(t, view, "History")
	assert.Contains(t, view, "Pikachu")
	assert.Contains(t, view, "lookup failed")
	assert.Contains(t, view, "[d] remove")
	assert.Len(t, m.Entries(), 3)
}

func TestBrowseLoadError(t *testing.T) {
	data := newFakeData()
	data.loadErr = errors.New("disk on fire")
	m := NewBrowseModel(context.Background(), "History", data.funcs(false))
	run(t, m, m.Init()())

	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), "disk on fire")
}

func TestBrowseOpenAndBack(t *testing.T) {
	data := newFakeData()
	m := loaded(t, data, false)

	run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateDetail, m.State())
	assert.Contains(t, m.View(), "#25 PIKACHU")
	assert.Equal(t, 1, data.details)

	run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowseOpenFailedEntryStaysOnList(t *testing.T) {
	m := loaded(t, newFakeData(), false)

	run(t, m, keyRunes("G"))
	run(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewStateList, m.State())
	assert.Contains(t, m.View(), "lookup failed: not found")
}

func TestBrowseToggleFavorite(t *testing.T) {
	data := newFakeData()
	m := loaded(t, data, false)

	run(t, m, keyRunes("j"))
	run(t, m, keyRunes("f"))
	assert.True(t, data.favorites[4])
	assert.True(t, m.Entries()[1].Favorite)
	assert.Contains(t, m.View(), "added #4 to favorites")

	run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewStateDetail, m.State())
	run(t, m, keyRunes("f"))
	assert.False(t, data.favorites[4])
	assert.False(t, m.Entries()[1].Favorite)
}

func TestBrowseRemove(t *testing.T) {
	data := newFakeData()
	m := loaded(t, data, true)

	run(t, m, keyRunes("d"))
	assert.Equal(t, []int{25}, data.removed)
	require.Len(t, m.Entries(), 2)
	assert.Equal(t, 4, m.Entries()[0].ID)
}

func TestBrowseRemoveDisabled(t *testing.T) {
	data := newFakeData()
	m := loaded(t, data, false)

	run(t, m, keyRunes("d"))
	assert.Empty(t, data.removed)
	assert.Len(t, m.Entries(), 3)
	assert.NotContains(t, m.View(), "[d] remove")
}

func TestBrowseEmptyAndQuit(t *testing.T) {
	data := newFakeData()
	data.entries = nil
	m := loaded(t, data, true)
	assert.Contains(t, m.View(), "Nothing here yet.")

	run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, m.State())

	run(t, m, keyRunes("q"))
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestBrowseResize(t *testing.T) {
	m := loaded(t, newFakeData(), false)
	run(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Charmander")
}
