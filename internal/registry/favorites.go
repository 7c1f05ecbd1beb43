package registry

import (
	"github.com/rs/zerolog"

	"github.com/rshade/pokefinder/internal/storage"
)

// Favorites is the favorites list. It never touches the cache.
type Favorites struct {
	list idList
}

// NewFavorites returns the favorites persisted in store.
func NewFavorites(store storage.Store, logger zerolog.Logger) *Favorites {
	return &Favorites{list: idList{store: store, key: FavoritesKey, logger: logger}}
}

// Toggle adds id to the front or removes it, and returns whether id is a
// favorite afterwards.
func (f *Favorites) Toggle(id int) (bool, error) {
	return f.list.toggle(id)
}

// Has reports whether id is a favorite.
func (f *Favorites) Has(id int) bool {
	return f.list.contains(id)
}

// Remove drops id.
func (f *Favorites) Remove(id int) error {
	_, err := f.list.remove(id)
	return err
}

// Clear empties the list.
func (f *Favorites) Clear() error {
	return f.list.clear()
}

// List returns the ids, most recently favorited first.
func (f *Favorites) List() []int {
	return f.list.list()
}
