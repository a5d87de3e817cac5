package directive

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/rs/zerolog"
)

// Keywords that configure the next alias.
const (
	KeywordExec        = "EXEC"
	KeywordExclArg     = "EXCL_ARG"
	KeywordCharsetConv = "CHARSET_CONV"
	KeywordPrefix      = "PREFIX"
)

const (
	statementAlias  = "alias"
	statementExport = "export"

	// conditionSeparator ends the trigger regex of a conditional value
	conditionSeparator = "/ &&"

	maxLineLength = 1024 * 1024
)

// parser holds the state accumulated while scanning toward one alias.
type parser struct {
	logger zerolog.Logger

	globals *types.Environment

	// one-shot state, reset at every non-matching alias statement
	oneShot  *types.Environment
	execMode int
	exclArgs []int
	prefix   *types.Conditional
	charset  *types.Conditional
}

func newParser() *parser {
	p := &parser{
		logger:  logging.GetLogger("directive"),
		globals: types.NewEnvironment(),
	}
	p.reset()
	return p
}

func (p *parser) reset() {
	p.oneShot = types.NewEnvironment()
	p.execMode = types.ExecModeDisabled
	p.exclArgs = nil
	p.prefix = nil
	p.charset = nil
}

// Parse scans the configuration for the alias called name (case-insensitive)
// and returns its settings. Path is left empty; Args holds the literal
// arguments that follow the target in the alias command.
func Parse(r io.Reader, name string) (*types.Settings, error) {
	p := newParser()
	var found *types.Settings

	err := scanLines(r, func(lineNo int, line string) bool {
		keyword, rest := splitKeyword(line)
		switch strings.ToLower(keyword) {
		case statementAlias:
			aliasName, value, ok := splitAssignment(rest)
			if !ok {
				p.logger.Warn().Int("line", lineNo).Str("text", line).Msg("Ignoring malformed alias statement")
				p.reset()
				return true
			}
			if strings.EqualFold(aliasName, name) {
				found = p.settings(aliasName, stripQuotes(value), lineNo)
				return false
			}
			p.reset()
		case statementExport:
			varName, value, ok := splitAssignment(rest)
			if !ok {
				p.logger.Warn().Int("line", lineNo).Str("text", line).Msg("Ignoring malformed export statement")
				return true
			}
			p.globals.Set(varName, stripQuotes(value))
		default:
			p.assignment(lineNo, line)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errors.Newf(errors.ErrAliasNotFound, "alias '%s' not found", name).
			WithDetail("alias", name)
	}
	return found, nil
}

// ParseFile is Parse over the file at path.
func ParseFile(path, name string) (*types.Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigRead, "cannot read alias configuration %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, name)
}

// assignment handles KEY=value lines: keywords and one-shot variables.
func (p *parser) assignment(lineNo int, line string) {
	key, value, ok := splitAssignment(line)
	if !ok {
		p.logger.Warn().Int("line", lineNo).Str("text", line).Msg("Ignoring unrecognized line")
		return
	}

	switch strings.ToUpper(key) {
	case KeywordExec:
		mode, err := strconv.Atoi(stripQuotes(value))
		if err != nil || mode < types.ExecModeDisabled {
			p.logger.Warn().Int("line", lineNo).Str("value", value).Msg("EXEC expects an integer, ignoring")
			return
		}
		p.execMode = mode
	case KeywordExclArg:
		p.exclArgs = parseIndexList(p.logger, lineNo, stripQuotes(value))
	case KeywordPrefix:
		p.prefix = ParseConditional(value)
	case KeywordCharsetConv:
		p.charset = ParseConditional(value)
	default:
		p.oneShot.Set(key, stripQuotes(value))
	}
}

func (p *parser) settings(name, command string, lineNo int) *types.Settings {
	s := types.NewSettings()
	s.Key = strings.ToLower(name)
	s.Name = name
	s.Command = command
	s.Line = lineNo
	_, s.Args = SplitCommand(command)

	s.Env = p.globals.Clone()
	s.Env.Merge(p.oneShot)
	s.ExecMode = p.execMode
	s.ExclArgs = p.exclArgs
	s.Prefix = p.prefix
	s.Charset = p.charset
	return s
}

// ParseConditional parses a keyword value. The form '/regex/ && "value"'
// yields a triggered value; anything else is unconditional. An empty value
// yields nil.
func ParseConditional(raw string) *types.Conditional {
	v := stripQuotes(strings.TrimSpace(raw))
	if strings.HasPrefix(v, "/") {
		if idx := strings.Index(v[1:], conditionSeparator); idx >= 0 {
			pattern := v[1 : 1+idx]
			value := strings.TrimSpace(v[1+idx+len(conditionSeparator):])
			return &types.Conditional{Value: stripQuotes(value), Pattern: pattern}
		}
	}
	if v == "" {
		return nil
	}
	return &types.Conditional{Value: v}
}

// SplitCommand separates the target from its literal arguments. A target
// starting with a double quote runs to the closing quote, otherwise to the
// first whitespace.
func SplitCommand(command string) (target, args string) {
	command = strings.TrimSpace(command)
	if strings.HasPrefix(command, `"`) {
		if end := strings.Index(command[1:], `"`); end >= 0 {
			return command[1 : 1+end], strings.TrimSpace(command[2+end:])
		}
		return strings.Trim(command, `"`), ""
	}
	if idx := strings.IndexAny(command, " \t"); idx >= 0 {
		return command[:idx], strings.TrimSpace(command[idx+1:])
	}
	return command, ""
}

func parseIndexList(logger zerolog.Logger, lineNo int, value string) []int {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	seen := make(map[int]bool, len(fields))
	var out []int
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			logger.Warn().Int("line", lineNo).Str("value", f).Msg("EXCL_ARG expects positive integers, skipping entry")
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// scanLines calls fn for every meaningful line with its 1-based number
// until fn returns false.
func scanLines(r io.Reader, fn func(lineNo int, line string) bool) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !fn(lineNo, line) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, errors.ErrConfigRead, "failed reading alias configuration")
	}
	return nil
}

// splitKeyword returns the first whitespace-delimited word and the rest.
func splitKeyword(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// splitAssignment splits NAME=value. The name must be a single word.
func splitAssignment(s string) (string, string, bool) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

// stripQuotes removes one matching pair of outer single or double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
