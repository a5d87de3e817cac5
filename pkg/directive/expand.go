package directive

import (
	"os"
	"strings"

	"github.com/arthur-debert/aka/pkg/paths"
	"github.com/arthur-debert/aka/pkg/types"
	"mvdan.cc/sh/v3/shell"
)

// Expand substitutes $VAR and ${VAR} in value, looking names up in env
// first and the process environment second. A leading ~ becomes the home
// directory. Values that fail to expand are returned unchanged.
func Expand(value string, env *types.Environment) string {
	value = paths.ExpandHome(value)
	if !strings.Contains(value, "$") {
		return value
	}
	expanded, err := shell.Expand(value, func(name string) string {
		if v, ok := env.Get(name); ok {
			return v
		}
		return os.Getenv(name)
	})
	if err != nil {
		return value
	}
	return expanded
}

// Target returns the expanded target of an alias command, ready for
// resolution.
func Target(s *types.Settings) string {
	target, _ := SplitCommand(s.Command)
	return Expand(target, s.Env)
}
