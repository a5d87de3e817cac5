// Package resolver turns an alias target into a concrete executable path.
//
// Targets come in two shapes. A bare filename such as "git" is looked up
// along PATH, trying PATHEXT extensions where the platform uses them. Any
// other target is a path pattern whose segments may hold * and ? wildcards:
//
//	C:\Tools\7zip-*\7z.exe
//	/opt/jdk-*/bin/java
//
// Wildcard segments are matched against directory listings. The final
// segment picks the most recently modified matching file; intermediate
// segments try matching directories newest first and backtrack when a
// branch cannot resolve the rest of the pattern.
package resolver
