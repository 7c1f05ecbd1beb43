// Package registry holds the two persisted id lists: search history and
// favorites.
//
// Both are ordered, duplicate-free and most-recent-first. History removals
// cascade into the cache; favorites never touch it, and the repository
// repairs a favorite whose cached payload has gone missing.
package registry
