package resolver

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Options configures a Resolver. Zero values fall back to the process
// environment and working directory.
type Options struct {
	FS types.FS

	// Self is the launcher executable; hits that lead back to it are skipped.
	Self string

	Getenv func(string) string
	Getwd  func() (string, error)
}

// Resolver resolves alias targets against a filesystem.
type Resolver struct {
	fs     types.FS
	self   string
	getenv func(string) string
	getwd  func() (string, error)
	logger zerolog.Logger
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	r := &Resolver{
		fs:     opts.FS,
		self:   opts.Self,
		getenv: opts.Getenv,
		getwd:  opts.Getwd,
		logger: logging.GetLogger("resolver"),
	}
	if r.getenv == nil {
		r.getenv = os.Getenv
	}
	if r.getwd == nil {
		r.getwd = os.Getwd
	}
	return r
}

// candidate is a wildcard match waiting to be ranked.
type candidate struct {
	path string
	info fs.FileInfo
}

// Resolve returns the concrete file a target names. Bare filenames go
// through SearchInPath, everything else through the wildcard walk.
func (r *Resolver) Resolve(target string) (string, error) {
	if target == "" {
		return "", errors.New(errors.ErrTargetNotFound, "empty alias target")
	}
	if IsBareFilename(target) {
		return r.SearchInPath(target)
	}

	root, rest := splitRoot(target)
	if root == "" {
		wd, err := r.getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrTargetNotFound, "cannot determine working directory").
				WithDetail("pattern", target)
		}
		root = wd
	}

	segments := splitSegments(rest)
	if len(segments) == 0 {
		return "", errors.Newf(errors.ErrTargetNotFound, "target '%s' does not name a file", target).
			WithDetail("pattern", target)
	}

	if resolved, ok := r.walk(root, segments); ok {
		r.logger.Debug().Str("pattern", target).Str("path", resolved).Msg("Resolved target")
		return resolved, nil
	}
	return "", errors.Newf(errors.ErrTargetNotFound, "no file matches '%s'", target).
		WithDetail("pattern", target)
}

// walk resolves segments below dir depth-first. Filesystem errors end the
// current branch and never escape.
func (r *Resolver) walk(dir string, segments []string) (string, bool) {
	segment := segments[0]
	last := len(segments) == 1

	if !HasWildcard(segment) {
		next := filepath.Join(dir, segment)
		info, err := r.fs.Stat(next)
		if err != nil {
			r.logger.Trace().Err(err).Str("path", next).Msg("Segment does not exist")
			return "", false
		}
		if last {
			return next, !info.IsDir()
		}
		if !info.IsDir() {
			return "", false
		}
		return r.walk(next, segments[1:])
	}

	candidates := r.match(dir, segment, !last)
	if last {
		if len(candidates) == 0 {
			return "", false
		}
		return candidates[0].path, true
	}
	for _, c := range candidates {
		if resolved, ok := r.walk(c.path, segments[1:]); ok {
			return resolved, true
		}
		r.logger.Trace().Str("dir", c.path).Msg("Backtracking")
	}
	return "", false
}

// match lists entries of dir matching the glob segment, keeping directories
// or files as asked, newest first.
func (r *Resolver) match(dir, segment string, wantDir bool) []candidate {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		r.logger.Trace().Err(err).Str("dir", dir).Msg("Cannot list directory")
		return nil
	}

	pattern := foldCase(segment)
	var out []candidate
	for _, entry := range entries {
		ok, err := doublestar.Match(pattern, foldCase(entry.Name()))
		if err != nil {
			r.logger.Warn().Err(err).Str("pattern", segment).Msg("Invalid wildcard segment")
			return nil
		}
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Stat follows links so a linked directory counts as a directory
		info, err := r.fs.Stat(path)
		if err != nil || info.IsDir() != wantDir {
			continue
		}
		out = append(out, candidate{path: path, info: info})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].info.ModTime(), out[j].info.ModTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].path < out[j].path
	})
	return out
}

// HasWildcard reports whether s holds a * or ? glob character.
func HasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// IsBareFilename reports whether target is a plain file name to look up
// along PATH: no separators, no drive, not starting with a dot.
func IsBareFilename(target string) bool {
	if target == "" || strings.HasPrefix(target, ".") {
		return false
	}
	if strings.ContainsAny(target, `/\`) {
		return false
	}
	return !hasDrive(target)
}

// splitRoot separates a drive, UNC share or leading slash from the rest of
// the pattern. An empty root means the working directory.
func splitRoot(pattern string) (root, rest string) {
	p := strings.ReplaceAll(pattern, `\`, "/")
	switch {
	case strings.HasPrefix(p, "//"):
		parts := strings.SplitN(strings.TrimLeft(p, "/"), "/", 3)
		if len(parts) < 2 {
			return p, ""
		}
		root = "//" + parts[0] + "/" + parts[1]
		if len(parts) == 3 {
			rest = parts[2]
		}
		return root, rest
	case hasDrive(p):
		return p[:2] + "/", strings.TrimLeft(p[2:], "/")
	case strings.HasPrefix(p, "/"):
		return "/", strings.TrimLeft(p, "/")
	default:
		return "", p
	}
}

func splitSegments(rest string) []string {
	var out []string
	for _, s := range strings.Split(rest, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func hasDrive(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func foldCase(s string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(s)
	}
	return s
}
