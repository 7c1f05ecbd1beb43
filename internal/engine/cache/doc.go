// Package cache implements the TTL-aware, kind-partitioned cache that sits in
// front of every PokeAPI lookup.
//
// The whole cache is one Root document (kind -> normalized key -> Entry)
// persisted under a single storage key. Every operation loads the root,
// optionally mutates it, and writes it back; the Engine serializes these
// read-modify-write sequences so concurrent callers never lose an update.
//
// Freshness is computed against a fixed TTL (24h by default). The repository
// turns a lookup result into an Origin:
//   - OriginCache: entry present and fresh, no network call
//   - OriginInvalid: entry present but stale, refetched
//   - OriginAPI: no entry, fetched
package cache
