// Package engine is the entity repository: it resolves Pokémon, abilities and
// types through the TTL cache and falls back to PokeAPI on a miss or a stale
// entry, reporting where each result came from.
//
// Lookups follow one path for every kind:
//
//	normalize -> cache get -> fresh? return (cache)
//	          -> fetch -> store under every key -> return (api | invalid)
//
// Pokémon and abilities are stored under both their numeric id and their
// name in a single cache write, so the two keys never disagree. Types are
// keyed by name only.
//
// Species and evolution chains are never persisted. They may be memoized in
// a process-local LRU, which only saves repeated requests within one run.
package engine
