package types

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EnvVar is a single NAME=value entry.
type EnvVar struct {
	Name  string
	Value string
}

// String renders the entry as NAME=value.
func (v EnvVar) String() string {
	return v.Name + "=" + v.Value
}

// Environment is an insertion-ordered set of variables. Setting an existing
// name replaces its value in place.
type Environment struct {
	vars *orderedmap.OrderedMap[string, string]
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: orderedmap.New[string, string]()}
}

// Set adds or replaces a variable.
func (e *Environment) Set(name, value string) {
	e.vars.Set(name, value)
}

// Get returns the value of a variable.
func (e *Environment) Get(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	return e.vars.Get(name)
}

// Len returns the number of variables.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return e.vars.Len()
}

// Vars returns the variables in insertion order.
func (e *Environment) Vars() []EnvVar {
	if e == nil {
		return nil
	}
	out := make([]EnvVar, 0, e.vars.Len())
	for pair := e.vars.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, EnvVar{Name: pair.Key, Value: pair.Value})
	}
	return out
}

// Merge copies every variable of other into e, in other's order.
func (e *Environment) Merge(other *Environment) {
	for _, v := range other.Vars() {
		e.Set(v.Name, v.Value)
	}
}

// Clone returns an independent copy.
func (e *Environment) Clone() *Environment {
	c := NewEnvironment()
	c.Merge(e)
	return c
}

// Blob joins the variables as NUL-separated NAME=value pairs, the form the
// cache persists.
func (e *Environment) Blob() string {
	vars := e.Vars()
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\x00")
}

// ParseEnvironmentBlob is the inverse of Blob. Malformed entries are skipped.
func ParseEnvironmentBlob(blob string) *Environment {
	env := NewEnvironment()
	if blob == "" {
		return env
	}
	for _, part := range strings.Split(blob, "\x00") {
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			continue
		}
		env.Set(name, value)
	}
	return env
}
