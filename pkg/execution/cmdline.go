package execution

import (
	"sort"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// CommandLine is a fully assembled invocation.
type CommandLine struct {
	// Path is the executable to spawn.
	Path string
	// Argv is the argument vector, Argv[0] being Path.
	Argv []string
	// Display renders the invocation for logs and listings.
	Display string
	// Joined is the caller's arguments joined by spaces, the text that
	// conditional values are matched against.
	Joined string
}

// Build assembles the command line for resolved settings and the caller's
// arguments.
func Build(s *types.Settings, callerArgs []string) (*CommandLine, error) {
	if !s.Resolved() {
		return nil, errors.Newf(errors.ErrTargetNotFound, "alias '%s' has no resolved target", s.Key)
	}

	aliasArgs, err := shlex.Split(s.Args, true)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidDirective, "cannot split arguments of alias '%s'", s.Key).
			WithDetail("args", s.Args).
			WithDetail("line", s.Line)
	}

	expanded := ExpandArgs(callerArgs, s.Excluded)

	argv := make([]string, 0, 1+len(aliasArgs)+len(expanded))
	argv = append(argv, s.Path)
	argv = append(argv, aliasArgs...)
	argv = append(argv, expanded...)

	var display strings.Builder
	display.WriteString(`"` + s.Path + `"`)
	if s.Args != "" {
		display.WriteString(" " + s.Args)
	}
	for _, a := range expanded {
		display.WriteString(" " + QuoteArg(a))
	}

	return &CommandLine{
		Path:    s.Path,
		Argv:    argv,
		Display: display.String(),
		Joined:  strings.Join(callerArgs, " "),
	}, nil
}

// String returns the display form.
func (c *CommandLine) String() string {
	return c.Display
}

// QuoteArg wraps an argument in double quotes when it holds a space and is
// not quoted already.
func QuoteArg(a string) string {
	if !strings.Contains(a, " ") {
		return a
	}
	if len(a) >= 2 && strings.HasPrefix(a, `"`) && strings.HasSuffix(a, `"`) {
		return a
	}
	return `"` + a + `"`
}

// ExpandArgs replaces every argument holding * or ? with the files it
// matches, sorted. Arguments whose 1-based index is excluded, and patterns
// matching nothing, are kept as written.
func ExpandArgs(args []string, excluded func(int) bool) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if !strings.ContainsAny(a, "*?") || (excluded != nil && excluded(i+1)) {
			out = append(out, a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a)
		if err != nil || len(matches) == 0 {
			out = append(out, a)
			continue
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out
}
