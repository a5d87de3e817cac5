// Package cache persists resolved aliases in an embedded SQLite store.
//
// The store is an optimization only. Every failure is logged and swallowed
// so that the launcher falls back to parsing and resolving from scratch.
// Freshness is judged for the store as a whole: it is valid while its file
// is at least as new as the alias configuration.
package cache
