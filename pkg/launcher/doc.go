// Package launcher runs an alias end to end.
//
// An invocation passes the recursion guard, looks the alias up in the
// resolution cache, falls back to parsing the configuration and resolving
// the target when the cache cannot answer, and finally hands the resolved
// command line to the execution package. The same package implements the
// maintenance operations behind the canonical command: listing the cache,
// rebuilding it with the alias links, and opening the configuration in an
// editor.
package launcher
