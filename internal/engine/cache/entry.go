package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind partitions the cache by entity type.
type Kind string

// Cache partitions.
const (
	KindPokemon Kind = "pokemon"
	KindAbility Kind = "ability"
	KindType    Kind = "type"
)

// Kinds returns every partition in display order.
func Kinds() []Kind {
	return []Kind{KindPokemon, KindAbility, KindType}
}

// ParseKind converts a user-supplied partition name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(Normalize(s)); k {
	case KindPokemon, KindAbility, KindType:
		return k, nil
	default:
		return "", fmt.Errorf("unknown cache kind %q", s)
	}
}

// Entry is a single cached payload. Entries are never edited in place; a
// refresh replaces the whole entry.
//
//nolint:revive // Entry is the canonical name for this exported type.
type Entry struct {
	// Data is the JSON-encoded entity.
	Data json.RawMessage `json:"data"`

	// Timestamp is the write time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`

	// Key is the normalized lookup key the entry is stored under.
	Key string `json:"key"`
}

// Root is the persisted cache document.
type Root map[Kind]map[string]Entry

// WrittenAt returns the entry timestamp as a time.Time.
func (e *Entry) WrittenAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how old the entry is at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt())
}

// EntityID extracts the numeric "id" field from the payload. It returns
// false when the payload has no usable id.
func (e *Entry) EntityID() (int, bool) {
	var ident struct {
		ID *int `json:"id"`
	}
	if err := json.Unmarshal(e.Data, &ident); err != nil || ident.ID == nil {
		return 0, false
	}
	return *ident.ID, true
}

// Normalize turns a user query into a cache key: trimmed and lowercased.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// IsFresh reports whether entry is non-nil and no older than ttl at nowMs.
// The boundary is inclusive: an entry exactly ttl old is still fresh.
func IsFresh(entry *Entry, nowMs int64, ttl time.Duration) bool {
	if entry == nil {
		return false
	}
	return nowMs-entry.Timestamp <= ttl.Milliseconds()
}
