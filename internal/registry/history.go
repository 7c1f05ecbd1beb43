package registry

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/pokefinder/internal/engine/cache"
	"github.com/rshade/pokefinder/internal/storage"
)

// EntityCache is the part of the cache engine history removals cascade into.
type EntityCache interface {
	InvalidateEntity(id int) (int, error)
	ClearKind(kind cache.Kind) error
}

// History is the search history.
type History struct {
	list       idList
	cache      EntityCache
	maxEntries int
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithMaxEntries caps the history length. Zero means unlimited.
func WithMaxEntries(n int) HistoryOption {
	return func(h *History) {
		if n >= 0 {
			h.maxEntries = n
		}
	}
}

// WithHistoryLogger sets the logger used for storage warnings.
func WithHistoryLogger(l zerolog.Logger) HistoryOption {
	return func(h *History) { h.list.logger = l }
}

// NewHistory returns the history persisted in store. c receives cascading
// invalidations.
func NewHistory(store storage.Store, c EntityCache, opts ...HistoryOption) *History {
	h := &History{
		list:  idList{store: store, key: HistoryKey, logger: zerolog.Nop()},
		cache: c,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add moves id to the front of the history.
func (h *History) Add(id int) error {
	return h.list.pushFront(id, h.maxEntries)
}

// Remove drops id from the history and invalidates every cached entry for
// that entity, so a later favorites view has to refetch it.
func (h *History) Remove(id int) error {
	if _, err := h.list.remove(id); err != nil {
		return err
	}
	if h.cache == nil {
		return nil
	}
	if _, err := h.cache.InvalidateEntity(id); err != nil {
		return fmt.Errorf("invalidating pokemon %d: %w", id, err)
	}
	return nil
}

// Clear empties the history and flushes the whole pokemon cache partition.
func (h *History) Clear() error {
	if h.cache != nil {
		if err := h.cache.ClearKind(cache.KindPokemon); err != nil {
			return fmt.Errorf("clearing pokemon cache: %w", err)
		}
	}
	return h.list.clear()
}

// List returns the ids, most recent first.
func (h *History) List() []int {
	return h.list.list()
}

// Contains reports whether id is in the history.
func (h *History) Contains(id int) bool {
	return h.list.contains(id)
}
