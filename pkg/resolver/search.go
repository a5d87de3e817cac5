package resolver

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/paths"
)

const maxLinkHops = 32

// SearchInPath finds a bare filename along PATH.
func (r *Resolver) SearchInPath(name string) (string, error) {
	return r.SearchInPathInternal(name, "")
}

// SearchInPathInternal finds a bare filename along PATH, skipping every
// entry up to and including the directory of skipBefore. Hits that are the
// launcher itself, or that share name with it in its own directory, are
// passed over so a later PATH entry can answer.
func (r *Resolver) SearchInPathInternal(name, skipBefore string) (string, error) {
	dirs := filepath.SplitList(r.getenv("PATH"))
	start := 0
	if skipBefore != "" {
		skipDir := r.canonical(filepath.Dir(skipBefore))
		for i, dir := range dirs {
			if dir != "" && paths.SameName(r.canonical(dir), skipDir) {
				start = i + 1
				break
			}
		}
	}

	exts := r.extensions(name)
	for _, dir := range dirs[start:] {
		if dir == "" {
			continue
		}
		for _, ext := range exts {
			hit, ok := r.walk(dir, []string{name + ext})
			if !ok {
				continue
			}
			if r.shadowsSelf(hit, name) {
				r.logger.Debug().Str("path", hit).Msg("Skipping launcher in PATH")
				continue
			}
			r.logger.Debug().Str("name", name).Str("path", hit).Msg("Found in PATH")
			return hit, nil
		}
	}

	err := errors.Newf(errors.ErrTargetNotFound, "'%s' not found in PATH", name).
		WithDetail("pattern", name)
	if skipBefore != "" {
		err = err.WithDetail("skip_before", skipBefore)
	}
	return "", err
}

// extensions lists the suffixes to try for name. A name that already has an
// extension is tried as is.
func (r *Resolver) extensions(name string) []string {
	if filepath.Ext(name) != "" {
		return []string{""}
	}
	if pathext := r.getenv("PATHEXT"); pathext != "" {
		var exts []string
		for _, ext := range strings.Split(pathext, ";") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, strings.ToLower(ext))
			}
		}
		if len(exts) > 0 {
			return exts
		}
	}
	return defaultExtensions
}

// IsSelf reports whether path leads to the launcher executable once links
// are followed.
func (r *Resolver) IsSelf(path string) bool {
	if r.self == "" || path == "" {
		return false
	}
	return paths.SameName(r.canonical(path), r.canonical(r.self))
}

// shadowsSelf reports whether a PATH hit would re-enter the launcher:
// either it is the launcher, or it sits in the launcher's directory under
// the name being searched (an alias link).
func (r *Resolver) shadowsSelf(hit, name string) bool {
	if r.self == "" {
		return false
	}
	if r.IsSelf(hit) {
		return true
	}
	if !paths.SameName(r.canonical(filepath.Dir(hit)), r.canonical(filepath.Dir(r.self))) {
		return false
	}
	return paths.SameName(stem(filepath.Base(hit)), stem(name))
}

// canonical follows final-component links through the resolver's
// filesystem and returns a clean absolute path.
func (r *Resolver) canonical(p string) string {
	for i := 0; i < maxLinkHops; i++ {
		info, err := r.fs.Lstat(p)
		if err != nil || info.Mode()&fs.ModeSymlink == 0 {
			break
		}
		target, err := r.fs.Readlink(p)
		if err != nil {
			break
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(p), target)
		}
		p = target
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
