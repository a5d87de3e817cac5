// Package types holds the values shared by the parser, the resolver, the
// cache and the executor.
//
// A single Settings value describes one alias from the moment the directive
// parser produces it until the executor consumes it; the cache persists the
// same value, so there is no separate record type to keep in sync.
package types
