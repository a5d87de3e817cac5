// Package ui renders aka's own output: the cache listing, help and errors.
// It supports terminal (rich), text (plain), JSON and YAML formats.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ListEntry is one cached alias as shown by `aka -p`.
type ListEntry struct {
	Alias     string            `json:"alias" yaml:"alias"`
	Path      string            `json:"path" yaml:"path"`
	Args      string            `json:"args,omitempty" yaml:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Exec      *int              `json:"exec,omitempty" yaml:"exec,omitempty"`
	ExclArgs  []int             `json:"excl_args,omitempty" yaml:"excl_args,omitempty"`
	Prefix    string            `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Charset   string            `json:"charset,omitempty" yaml:"charset,omitempty"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ListOptions controls RenderList.
type ListOptions struct {
	Format     Format
	Timestamps bool
}

// NewListEntry converts cached settings for display.
func NewListEntry(s *types.Settings, timestamps bool) ListEntry {
	e := ListEntry{
		Alias:    s.Key,
		Path:     s.Path,
		Args:     s.Args,
		ExclArgs: s.ExclArgs,
		Prefix:   conditionalText(s.Prefix),
		Charset:  conditionalText(s.Charset),
	}
	if s.Env.Len() > 0 {
		e.Env = make(map[string]string, s.Env.Len())
		for _, v := range s.Env.Vars() {
			e.Env[v.Name] = v.Value
		}
	}
	if s.ExecMode != types.ExecModeDisabled {
		mode := s.ExecMode
		e.Exec = &mode
	}
	if timestamps {
		at := s.UpdatedAt.UTC()
		e.UpdatedAt = &at
	}
	return e
}

func conditionalText(c *types.Conditional) string {
	if c == nil {
		return ""
	}
	if c.Pattern == "" {
		return c.Value
	}
	return fmt.Sprintf("/%s/ && %q", c.Pattern, c.Value)
}

// RenderList writes the cached aliases in the requested format.
func RenderList(w io.Writer, items []*types.Settings, opts ListOptions) error {
	entries := make([]ListEntry, len(items))
	for i, s := range items {
		entries[i] = NewListEntry(s, opts.Timestamps)
	}

	switch opts.Format.Resolve(w) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode listing")
		}
		return enc.Close()
	case FormatTerminal:
		return renderTable(w, entries, opts.Timestamps)
	default:
		return renderText(w, entries, opts.Timestamps)
	}
}

func renderTable(w io.Writer, entries []ListEntry, timestamps bool) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, pterm.Info.Sprint("No aliases cached. Run `aka -r` to rebuild."))
		return err
	}

	header := []string{"Alias", "Target", "Options"}
	if timestamps {
		header = append(header, "Updated")
	}
	data := pterm.TableData{header}
	for _, e := range entries {
		target := fmt.Sprintf("%q", e.Path)
		if e.Args != "" {
			target += " " + e.Args
		}
		row := []string{pterm.Bold.Sprint(e.Alias), target, options(e)}
		if timestamps {
			row = append(row, e.UpdatedAt.Local().Format(time.DateTime))
		}
		data = append(data, row)
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func renderText(w io.Writer, entries []ListEntry, timestamps bool) error {
	for _, e := range entries {
		line := fmt.Sprintf("%s = %q", e.Alias, e.Path)
		if e.Args != "" {
			line += " " + e.Args
		}
		if opts := options(e); opts != "" {
			line += "  [" + opts + "]"
		}
		if timestamps {
			line += "  " + e.UpdatedAt.Local().Format(time.DateTime)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// options summarizes the behavior flags of an entry.
func options(e ListEntry) string {
	var parts []string
	if e.Exec != nil {
		parts = append(parts, fmt.Sprintf("EXEC=%d", *e.Exec))
	}
	if len(e.ExclArgs) > 0 {
		idx := make([]string, len(e.ExclArgs))
		for i, n := range e.ExclArgs {
			idx[i] = fmt.Sprint(n)
		}
		parts = append(parts, "EXCL_ARG="+strings.Join(idx, ","))
	}
	if e.Prefix != "" {
		parts = append(parts, fmt.Sprintf("PREFIX=%q", e.Prefix))
	}
	if e.Charset != "" {
		parts = append(parts, fmt.Sprintf("CHARSET_CONV=%q", e.Charset))
	}
	if len(e.Env) > 0 {
		parts = append(parts, fmt.Sprintf("%d env", len(e.Env)))
	}
	return strings.Join(parts, " ")
}
