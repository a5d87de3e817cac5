package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProfileDir(t *testing.T) {
	t.Run("explicit directory", func(t *testing.T) {
		dir := t.TempDir()
		p, err := New(dir)
		require.NoError(t, err)

		assert.Equal(t, dir, p.ProfileDir())
		assert.Equal(t, filepath.Join(dir, ".alias"), p.ConfigFile())
		assert.Equal(t, filepath.Join(dir, ".alias.db"), p.CacheFile())
	})

	t.Run("environment override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvProfileDir, dir)

		p, err := New("")
		require.NoError(t, err)
		assert.Equal(t, dir, p.ProfileDir())
	})
}

func TestNew_StateAndConfigDirs(t *testing.T) {
	state := t.TempDir()
	cfg := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	t.Setenv(EnvConfigDir, cfg)

	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(state, "aka"), p.StateDir())
	assert.Equal(t, filepath.Join(state, "aka", "aka.log"), p.LogFilePath())
	assert.Equal(t, cfg, p.ConfigDir())
	assert.Equal(t, filepath.Join(cfg, "aka.toml"), p.SettingsFile())
}

func TestExecutable(t *testing.T) {
	p, err := New(t.TempDir())
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, exe, p.Executable())
	assert.Equal(t, filepath.Dir(exe), p.ExecutableDir())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/bin/tool", filepath.Join(home, "bin", "tool")},
		{"~other/bin", "~other/bin"},
		{"/abs/path", "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "launcher")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0755))

	link := filepath.Join(dir, "git")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	assert.True(t, SamePath(link, target))
	assert.True(t, SamePath(filepath.Join(dir, ".", "launcher"), target))
	assert.False(t, SamePath(filepath.Join(dir, "other"), target))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("git", "git"))
	assert.False(t, SameName("git", "svn"))
	assert.Equal(t, caseInsensitiveFS, SameName("Git.EXE", "git.exe"))
}
