// Package storage provides the durable key/value layer pokefinder keeps its
// cache root, search history and favorites in.
//
// Values are JSON documents addressed by a string key. Each Set replaces the
// whole value for its key atomically; there are no multi-key transactions.
// Reads through Read are fail-soft: a missing key, an I/O error or a value
// that no longer parses yields the caller's default instead of an error.
//
// Three engines are available:
//   - file: one JSON file per key under a directory (default)
//   - sqlite: a single kv table in a SQLite database (modernc.org/sqlite, no cgo)
//   - memory: process-local map, used by tests and --store-engine=memory
package storage
