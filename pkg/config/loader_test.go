package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "aka", cfg.CanonicalName)
	assert.Equal(t, 9, cfg.MaxDepth)
	assert.Equal(t, 4096, cfg.Relay.ChunkSize)
	assert.Equal(t, "", cfg.Relay.ConsoleEncoding)
	assert.Equal(t, "crlf", cfg.Relay.LineEnding)
	assert.Equal(t, 2*time.Second, cfg.Cache.BusyTimeout)
	assert.False(t, cfg.Cache.Disabled)
}

func TestLoad_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aka.toml")
	content := `
max_depth = 4
editor = "nano"

[relay]
console_encoding = "GBK"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, "nano", cfg.Editor)
	assert.Equal(t, "GBK", cfg.Relay.ConsoleEncoding)
	// untouched keys keep their defaults
	assert.Equal(t, 4096, cfg.Relay.ChunkSize)
}

func TestLoad_MissingSettingsFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxDepth)
}

func TestLoad_InvalidSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aka.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth = = 3"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	assert.Equal(t, path, errors.GetErrorDetails(err)["path"])
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("AKA_MAX_DEPTH", "deep")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("AKA_MAX_DEPTH", "3")
	t.Setenv("AKA_EDITOR", "code -w")
	t.Setenv("AKA_RELAY__CHUNK_SIZE", "512")
	t.Setenv("AKA_DEPTH", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, "code -w", cfg.Editor)
	assert.Equal(t, 512, cfg.Relay.ChunkSize)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"AKA_MAX_DEPTH":         "max_depth",
		"AKA_RELAY__CHUNK_SIZE": "relay.chunk_size",
		"AKA_DEPTH":             "",
		"AKA_VERBOSE":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestPostProcess(t *testing.T) {
	cfg := &Config{MaxDepth: -2}
	postProcess(cfg)

	assert.Equal(t, DefaultCanonicalName, cfg.CanonicalName)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultChunkSize, cfg.Relay.ChunkSize)
	assert.Equal(t, DefaultLineEnding, cfg.Relay.LineEnding)
}

func TestEditorCommand(t *testing.T) {
	t.Run("configured editor wins", func(t *testing.T) {
		t.Setenv("VISUAL", "emacs")
		cfg := &Config{Editor: "nano"}
		assert.Equal(t, "nano", cfg.EditorCommand())
	})

	t.Run("falls back to VISUAL then EDITOR", func(t *testing.T) {
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", "ed")
		cfg := &Config{}
		assert.Equal(t, "ed", cfg.EditorCommand())
	})
}

func TestToTOML(t *testing.T) {
	cfg := &Config{CanonicalName: "aka", MaxDepth: 5}
	out, err := cfg.ToTOML()
	require.NoError(t, err)

	assert.Regexp(t, `canonical_name = ['"]aka['"]`, out)
	assert.Contains(t, out, "max_depth = 5")
}
