// Package symlinks keeps one link per alias next to the launcher, so that
// typing the alias name runs aka under that name.
package symlinks

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/paths"
	"github.com/arthur-debert/aka/pkg/types"
)

// Result lists what a reconciliation did, by alias name.
type Result struct {
	Created []string
	Removed []string
	Kept    []string
	// Skipped names are occupied by something that is not our link.
	Skipped []string
	Failed  map[string]error
}

// Reconcile makes dir hold a link to self for every name and removes links
// to self whose name is no longer an alias. Files that are not links to
// self are never touched.
func Reconcile(fsys types.FS, dir, self string, names []string) (*Result, error) {
	logger := logging.GetLogger("symlinks")
	res := &Result{Failed: make(map[string]error)}

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
	}

	selfName := stem(filepath.Base(self))
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || paths.SameName(name, selfName) {
			continue
		}
		wanted[fold(name)] = true

		link := filepath.Join(dir, name+linkSuffix)
		info, err := fsys.Lstat(link)
		switch {
		case err != nil:
			if err := fsys.Symlink(self, link); err != nil {
				res.Failed[name] = errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", link).
					WithDetail("link", link)
				logger.Warn().Err(err).Str("link", link).Msg("Cannot create alias link")
				continue
			}
			res.Created = append(res.Created, name)
		case pointsTo(fsys, link, info, self):
			res.Kept = append(res.Kept, name)
		default:
			logger.Warn().Str("path", link).Msg("Name taken by another file, not linking")
			res.Skipped = append(res.Skipped, name)
		}
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", dir)
	}
	for _, entry := range entries {
		name := stem(entry.Name())
		if wanted[fold(name)] || paths.SameName(name, selfName) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := fsys.Lstat(path)
		if err != nil || !pointsTo(fsys, path, info, self) {
			continue
		}
		if err := fsys.Remove(path); err != nil {
			res.Failed[name] = errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", path)
			continue
		}
		res.Removed = append(res.Removed, name)
	}

	sort.Strings(res.Created)
	sort.Strings(res.Removed)
	sort.Strings(res.Kept)
	sort.Strings(res.Skipped)
	return res, nil
}

// pointsTo reports whether link is a symlink whose target is self.
func pointsTo(fsys types.FS, link string, info fs.FileInfo, self string) bool {
	if info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := fsys.Readlink(link)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return paths.SameName(filepath.Clean(target), filepath.Clean(self))
}

func stem(name string) string {
	return strings.TrimSuffix(name, linkSuffix)
}

func fold(name string) string {
	if paths.SameName("A", "a") {
		return strings.ToLower(name)
	}
	return name
}
