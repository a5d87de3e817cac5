package launcher

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/anmitsu/go-shlex"
	"github.com/arthur-debert/aka/pkg/directive"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/symlinks"
	"github.com/arthur-debert/aka/pkg/types"
)

const (
	maxSuggestions        = 3
	maxSuggestionDistance = 2
)

// RebuildFailure is an alias that could not be resolved during a rebuild.
type RebuildFailure struct {
	Name string
	Line int
	Err  error
}

// RebuildReport summarizes Rebuild.
type RebuildReport struct {
	Resolved []*types.Settings
	Failures []RebuildFailure
	Links    *symlinks.Result
	LinkErr  error
}

// Rebuild empties the cache, resolves every alias in the configuration and
// reconciles the alias links next to the launcher.
func (l *Launcher) Rebuild(ctx context.Context) (*RebuildReport, error) {
	defer logging.LogOperationStart(l.logger, "rebuild")()

	if err := l.EnsureConfig(); err != nil {
		return nil, err
	}
	configPath := l.paths.ConfigFile()
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigRead, "cannot read %s", configPath)
	}
	entries, err := directive.ListAliases(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	store := l.openStore(ctx)
	defer func() { _ = store.Close() }()
	store.Clear(ctx)

	report := &RebuildReport{}
	seen := make(map[string]bool, len(entries))
	var names []string
	for _, entry := range entries {
		key := strings.ToLower(entry.Name)
		if seen[key] {
			l.logger.Warn().Str("alias", entry.Name).Int("line", entry.Line).Msg("Duplicate alias ignored")
			continue
		}
		seen[key] = true
		names = append(names, entry.Name)

		s, err := directive.Parse(bytes.NewReader(data), entry.Name)
		if err == nil {
			s, err = l.resolveParsed(s, configPath)
		}
		if err == nil && l.resolver.IsSelf(s.Path) {
			err = errors.Newf(errors.ErrSelfReference, "alias '%s' (%s line %d) resolves to aka itself",
				entry.Name, configPath, entry.Line)
		}
		if err != nil {
			report.Failures = append(report.Failures, RebuildFailure{Name: entry.Name, Line: entry.Line, Err: err})
			continue
		}
		store.Put(ctx, s)
		report.Resolved = append(report.Resolved, s)
	}

	report.Links, report.LinkErr = symlinks.Reconcile(l.fs, l.linkDir, l.self, names)
	if report.LinkErr != nil {
		l.logger.Warn().Err(report.LinkErr).Msg("Alias links not reconciled")
	}
	return report, nil
}

// List returns the cached aliases ordered by key.
func (l *Launcher) List(ctx context.Context) []*types.Settings {
	store := l.openStore(ctx)
	defer func() { _ = store.Close() }()
	return store.ListAll(ctx)
}

// Suggest returns up to three configured aliases close to name.
func (l *Launcher) Suggest(name string) []string {
	entries, err := directive.ListAliasesFromFile(l.paths.ConfigFile())
	if err != nil {
		return nil
	}

	type scored struct {
		name     string
		distance int
	}
	target := strings.ToLower(name)
	seen := make(map[string]bool)
	var candidates []scored
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if seen[key] || key == target {
			continue
		}
		seen[key] = true
		if d := levenshtein.ComputeDistance(target, key); d <= maxSuggestionDistance {
			candidates = append(candidates, scored{name: e.Name, distance: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	var out []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		out = append(out, candidates[i].name)
	}
	return out
}

// Edit opens the alias configuration in the configured editor.
func (l *Launcher) Edit(ctx context.Context) error {
	if err := l.EnsureConfig(); err != nil {
		return err
	}
	editor := l.cfg.EditorCommand()
	parts, err := shlex.Split(editor, true)
	if err != nil || len(parts) == 0 {
		return errors.Newf(errors.ErrInvalidInput, "cannot parse editor command '%s'", editor)
	}

	args := append(parts[1:], l.paths.ConfigFile())
	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.Env = l.environ
	l.logger.Debug().Str("editor", editor).Msg("Opening configuration")
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrSpawn, "editor '%s' failed", editor)
	}
	return nil
}
