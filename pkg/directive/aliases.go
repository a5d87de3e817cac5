package directive

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/types"
)

// ListAliases returns every alias statement in file order, for full cache
// rebuilds and diagnostics. Duplicate names are all reported.
func ListAliases(r io.Reader) ([]types.AliasEntry, error) {
	var entries []types.AliasEntry
	err := scanLines(r, func(lineNo int, line string) bool {
		keyword, rest := splitKeyword(line)
		if !strings.EqualFold(keyword, statementAlias) {
			return true
		}
		name, value, ok := splitAssignment(rest)
		if !ok {
			return true
		}
		entries = append(entries, types.AliasEntry{
			Name:    name,
			Command: stripQuotes(value),
			Line:    lineNo,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAliasesFromFile is ListAliases over the file at path.
func ListAliasesFromFile(path string) ([]types.AliasEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigRead, "cannot read alias configuration %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()
	return ListAliases(f)
}
