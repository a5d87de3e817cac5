package types

import (
	"sort"
	"time"
)

// ExecModeDisabled keeps the launcher attached until the child exits.
const ExecModeDisabled = -1

// Settings is everything aka knows about one alias: what the directive
// parser found and, once resolved, the concrete target. The cache stores
// exactly this value.
type Settings struct {
	// Key is the lowercased alias name, the cache identity.
	Key string
	// Name is the alias name as written in the configuration.
	Name string
	// Command is the raw target text, path plus literal arguments.
	Command string
	// Line is the line of the alias statement, for diagnostics.
	Line int

	// Path is the resolved executable; empty until resolution.
	Path string
	// Args are the literal arguments that follow the target path.
	Args string

	Env      *Environment
	ExecMode int
	ExclArgs []int
	Prefix   *Conditional
	Charset  *Conditional

	UpdatedAt time.Time
}

// NewSettings returns settings with every behavior disabled.
func NewSettings() *Settings {
	return &Settings{
		Env:      NewEnvironment(),
		ExecMode: ExecModeDisabled,
	}
}

// Resolved reports whether a concrete path is known.
func (s *Settings) Resolved() bool {
	return s.Path != ""
}

// Excluded reports whether the 1-based caller argument index is exempt
// from wildcard expansion.
func (s *Settings) Excluded(index int) bool {
	i := sort.SearchInts(s.ExclArgs, index)
	return i < len(s.ExclArgs) && s.ExclArgs[i] == index
}

// NeedsRelay reports whether output must pass through the piped relay.
func (s *Settings) NeedsRelay() bool {
	return s.Prefix != nil || s.Charset != nil
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Env = s.Env.Clone()
	if s.ExclArgs != nil {
		c.ExclArgs = append([]int(nil), s.ExclArgs...)
	}
	if s.Prefix != nil {
		p := *s.Prefix
		c.Prefix = &p
	}
	if s.Charset != nil {
		cs := *s.Charset
		c.Charset = &cs
	}
	return &c
}

// AliasEntry is one alias statement as found in the configuration.
type AliasEntry struct {
	Name    string `json:"name" yaml:"name"`
	Command string `json:"command" yaml:"command"`
	Line    int    `json:"line" yaml:"line"`
}
