// Package execution launches a resolved alias.
//
// The command line is assembled from the resolved path, the alias's literal
// arguments and the caller's arguments (wildcards expanded). The child then
// runs in one of two ways:
//
//   - direct: it inherits the standard handles; the launcher waits for it,
//     or detaches immediately or after a number of seconds (EXEC mode)
//   - relayed: its stdout and stderr go through a pipe so every line can be
//     prefixed and the stream transcoded between character sets
//
// The relay is chosen whenever a PREFIX or CHARSET_CONV value applies to the
// invocation's arguments.
package execution
