// Package shell renders alias definitions for the user's shell. A child
// process cannot change its parent shell's alias table, so aka prints the
// definition for the shell to evaluate:
//
//	eval "$(aka ll='ls -l')"
package shell

import (
	"fmt"
	"strings"
)

// ParseDefinition splits a NAME=VALUE argument. NAME must be non-empty and
// free of whitespace and quotes.
func ParseDefinition(arg string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(arg, "=")
	if !ok || name == "" || strings.ContainsAny(name, " \t'\"=/\\") {
		return "", "", false
	}
	return name, value, true
}

// AliasSnippet returns a POSIX alias command defining name as value.
func AliasSnippet(name, value string) string {
	return fmt.Sprintf("alias %s=%s", name, Quote(value))
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
