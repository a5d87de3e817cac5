package execution

import (
	"strings"

	"github.com/arthur-debert/aka/pkg/directive"
	"github.com/arthur-debert/aka/pkg/types"
)

// BuildEnv returns the environment block for the child: base, then the
// alias's variables in declaration order with $VAR references expanded
// against what has been built so far, then extra (the depth counter).
func BuildEnv(base []string, s *types.Settings, extra ...types.EnvVar) []string {
	env := types.NewEnvironment()
	for _, kv := range base {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env.Set(name, value)
	}
	for _, v := range s.Env.Vars() {
		env.Set(v.Name, directive.Expand(v.Value, env))
	}
	for _, v := range extra {
		env.Set(v.Name, v.Value)
	}

	vars := env.Vars()
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.String()
	}
	return out
}
