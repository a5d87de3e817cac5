package guard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/aka/pkg/cache"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/filesystem"
	"github.com/arthur-debert/aka/pkg/resolver"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	launcherDir string
	otherDir    string
	self        string
	link        string
	config      string
	store       *cache.Store
	guard       *Guard
}

func newFixture(t *testing.T, aliases string) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		launcherDir: filepath.Join(root, "launcher"),
		otherDir:    filepath.Join(root, "bin"),
		config:      filepath.Join(root, ".alias"),
	}
	require.NoError(t, os.MkdirAll(f.launcherDir, 0755))
	require.NoError(t, os.MkdirAll(f.otherDir, 0755))

	f.self = filepath.Join(f.launcherDir, "aka")
	require.NoError(t, os.WriteFile(f.self, []byte("launcher"), 0755))
	f.link = filepath.Join(f.launcherDir, "git")
	if err := os.Symlink(f.self, f.link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(f.otherDir, "git"), []byte("git"), 0755))
	require.NoError(t, os.WriteFile(f.config, []byte(aliases), 0644))

	store, err := cache.Open(context.Background(), filepath.Join(root, ".alias.db"), cache.Options{BusyTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	f.store = store

	pathVar := strings.Join([]string{f.launcherDir, f.otherDir}, string(filepath.ListSeparator))
	r := resolver.New(resolver.Options{
		FS:   filesystem.NewOS(),
		Self: f.self,
		Getenv: func(k string) string {
			if k == "PATH" {
				return pathVar
			}
			return ""
		},
	})
	f.guard = New(r, store, f.config)
	return f
}

func staleSettings(path string) *types.Settings {
	s := types.NewSettings()
	s.Key, s.Name, s.Command, s.Path = "git", "git", "git", path
	s.Args = "--no-pager"
	s.Env.Set("PAGER", "cat")
	s.ExecMode = 0
	return s
}

func TestCheck_LeavesForeignTargetsAlone(t *testing.T) {
	f := newFixture(t, "alias git=git\n")
	target := filepath.Join(f.otherDir, "git")

	in := staleSettings(target)
	out, err := f.guard.Check(context.Background(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestCheck_ResearchesPastLauncher(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "export PAGER=less\nalias git=git\n")

	out, err := f.guard.Check(ctx, staleSettings(f.link))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.otherDir, "git"), out.Path)
	assert.Equal(t, "--no-pager", out.Args, "other fields are kept")
	pager, _ := out.Env.Get("PAGER")
	assert.Equal(t, "cat", pager)
	assert.Equal(t, 0, out.ExecMode)

	cached, ok := f.store.Get(ctx, "git")
	require.True(t, ok)
	assert.Equal(t, out.Path, cached.Path)
}

func TestFallback_AbsoluteTargetFails(t *testing.T) {
	f := newFixture(t, "# tools\n\nalias git=/opt/git/bin/git\n")

	_, err := f.guard.Check(context.Background(), staleSettings(f.link))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSelfReference))
	assert.Equal(t, 3, errors.GetErrorDetails(err)["line"])
	assert.Contains(t, err.Error(), "line 3")
}

func TestFallback_NothingFurtherDownPath(t *testing.T) {
	f := newFixture(t, "alias git=git\n")
	require.NoError(t, os.Remove(filepath.Join(f.otherDir, "git")))

	_, err := f.guard.Check(context.Background(), staleSettings(f.link))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotFound))
}

func TestFallback_AliasRemovedFromConfig(t *testing.T) {
	f := newFixture(t, "alias svn=svn\n")

	_, err := f.guard.Fallback(context.Background(), staleSettings(f.link))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAliasNotFound))
}
