package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/pokefinder/internal/storage"
)

// Storage keys of the persisted lists.
const (
	HistoryKey   = "history"
	FavoritesKey = "favorites"
)

// idList is a persisted, most-recent-first list of unique ids.
type idList struct {
	store  storage.Store
	key    string
	logger zerolog.Logger

	// mu serializes read-modify-write of the persisted list.
	mu sync.Mutex
}

func (l *idList) loadLocked() []int {
	ids := storage.Read(l.store, l.key, []int{}, l.logger)
	if ids == nil {
		return []int{}
	}
	return dedupe(ids)
}

func (l *idList) saveLocked(ids []int) error {
	if err := storage.Write(l.store, l.key, ids); err != nil {
		return fmt.Errorf("saving %s: %w", l.key, err)
	}
	return nil
}

func (l *idList) list() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *idList) contains(id int) bool {
	return slices.Contains(l.list(), id)
}

// pushFront moves id to the front, trimming the list to limit when limit > 0.
func (l *idList) pushFront(id, limit int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := slices.DeleteFunc(l.loadLocked(), func(v int) bool { return v == id })
	ids = slices.Insert(ids, 0, id)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return l.saveLocked(ids)
}

// remove drops id and reports whether it was present.
func (l *idList) remove(id int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.loadLocked()
	kept := slices.DeleteFunc(slices.Clone(ids), func(v int) bool { return v == id })
	if len(kept) == len(ids) {
		return false, nil
	}
	return true, l.saveLocked(kept)
}

// toggle adds id to the front when absent, otherwise removes it, and reports
// membership after the change.
func (l *idList) toggle(id int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.loadLocked()
	if slices.Contains(ids, id) {
		return false, l.saveLocked(slices.DeleteFunc(ids, func(v int) bool { return v == id }))
	}
	return true, l.saveLocked(slices.Insert(ids, 0, id))
}

func (l *idList) clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveLocked([]int{})
}

// dedupe keeps the first occurrence of each id; hand-edited files may repeat.
func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
