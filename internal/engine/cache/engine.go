package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/pokefinder/internal/storage"
)

// RootKey is the storage key the cache root is persisted under.
const RootKey = "cache"

// Engine is the TTL cache over a storage.Store.
type Engine struct {
	store  storage.Store
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	// mu serializes every load-mutate-persist of the root.
	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithClock injects the time source used for timestamps and freshness.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine persisting into store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TTL returns the configured time-to-live.
func (e *Engine) TTL() time.Duration {
	return e.ttl
}

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Get returns a copy of the entry stored for query under kind, or nil.
func (e *Engine) Get(kind Kind, query string) *Entry {
	key := Normalize(query)
	if key == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.loadLocked()[kind][key]
	if !ok {
		e.logger.Debug().Str("kind", string(kind)).Str("key", key).Msg("cache miss")
		return nil
	}
	return &entry
}

// IsFresh reports whether entry is fresh under the engine TTL and clock.
func (e *Engine) IsFresh(entry *Entry) bool {
	return IsFresh(entry, e.now().UnixMilli(), e.ttl)
}

// Put writes data under the normalized query and persists immediately.
func (e *Engine) Put(kind Kind, query string, data []byte) (Entry, error) {
	entries, err := e.PutAll(kind, []string{query}, data)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("cache key cannot be empty: %q", query)
	}
	return entries[0], nil
}

// PutAll writes the same payload under every key in one persisted update.
// Each key gets its own copy of data so the entries are not shared.
func (e *Engine) PutAll(kind Kind, keys []string, data []byte) ([]Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := e.loadLocked()
	partition := root[kind]
	if partition == nil {
		partition = make(map[string]Entry)
		root[kind] = partition
	}

	ts := e.now().UnixMilli()
	written := make([]Entry, 0, len(keys))
	for _, k := range keys {
		key := Normalize(k)
		if key == "" {
			continue
		}
		entry := Entry{
			Data:      append([]byte(nil), data...),
			Timestamp: ts,
			Key:       key,
		}
		partition[key] = entry
		written = append(written, entry)
	}
	if len(written) == 0 {
		return nil, nil
	}

	if err := e.persistLocked(root); err != nil {
		return nil, err
	}
	e.logger.Debug().Str("kind", string(kind)).Int("keys", len(written)).Msg("cache write")
	return written, nil
}

// InvalidateEntity removes every pokemon entry whose payload id equals id,
// covering both the id key and the name key. It returns how many entries
// were removed.
func (e *Engine) InvalidateEntity(id int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := e.loadLocked()
	partition := root[KindPokemon]

	removed := 0
	for key, entry := range partition {
		if entryID, ok := entry.EntityID(); ok && entryID == id {
			delete(partition, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	if err := e.persistLocked(root); err != nil {
		return 0, err
	}
	e.logger.Debug().Int("id", id).Int("removed", removed).Msg("cache entity invalidated")
	return removed, nil
}

// ClearKind drops an entire partition.
func (e *Engine) ClearKind(kind Kind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := e.loadLocked()
	if _, ok := root[kind]; !ok {
		return nil
	}
	delete(root, kind)

	if err := e.persistLocked(root); err != nil {
		return err
	}
	e.logger.Debug().Str("kind", string(kind)).Msg("cache partition cleared")
	return nil
}

// Clear drops every partition.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistLocked(Root{})
}

// Prune removes stale entries from every partition and returns the count.
func (e *Engine) Prune() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := e.loadLocked()
	nowMs := e.now().UnixMilli()

	removed := 0
	for _, partition := range root {
		for key, entry := range partition {
			if !IsFresh(&entry, nowMs, e.ttl) {
				delete(partition, key)
				removed++
			}
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := e.persistLocked(root); err != nil {
		return 0, err
	}
	return removed, nil
}

// KindStats summarizes one partition.
type KindStats struct {
	Entries int           `json:"entries"`
	Fresh   int           `json:"fresh"`
	Stale   int           `json:"stale"`
	Oldest  time.Duration `json:"oldest_age"`
}

// Stats summarizes the whole cache.
type Stats struct {
	TTL   time.Duration      `json:"ttl"`
	Kinds map[Kind]KindStats `json:"kinds"`
}

// Stats reports entry counts and freshness per partition.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := e.loadLocked()
	now := e.now()

	stats := Stats{TTL: e.ttl, Kinds: make(map[Kind]KindStats, len(Kinds()))}
	for _, kind := range Kinds() {
		var ks KindStats
		for _, entry := range root[kind] {
			ks.Entries++
			if IsFresh(&entry, now.UnixMilli(), e.ttl) {
				ks.Fresh++
			} else {
				ks.Stale++
			}
			if age := entry.Age(now); age > ks.Oldest {
				ks.Oldest = age
			}
		}
		stats.Kinds[kind] = ks
	}
	return stats
}

// loadLocked reads the root. A missing or corrupted root is an empty one.
func (e *Engine) loadLocked() Root {
	root := storage.Read(e.store, RootKey, Root{}, e.logger)
	if root == nil {
		root = Root{}
	}
	return root
}

func (e *Engine) persistLocked(root Root) error {
	if err := storage.Write(e.store, RootKey, root); err != nil {
		return fmt.Errorf("persisting cache root: %w", err)
	}
	return nil
}
