package config

import (
	"os"
	"runtime"
	"time"
)

// Config is the main configuration structure
type Config struct {
	CanonicalName string `koanf:"canonical_name" toml:"canonical_name"`
	MaxDepth      int    `koanf:"max_depth" toml:"max_depth"`
	Editor        string `koanf:"editor" toml:"editor"`
	Relay         Relay  `koanf:"relay" toml:"relay"`
	Cache         Cache  `koanf:"cache" toml:"cache"`
}

// Relay holds settings for the piped output relay
type Relay struct {
	ChunkSize       int    `koanf:"chunk_size" toml:"chunk_size"`
	ConsoleEncoding string `koanf:"console_encoding" toml:"console_encoding"`
	LineEnding      string `koanf:"line_ending" toml:"line_ending"`
}

// Cache holds settings for the resolution cache store
type Cache struct {
	Disabled    bool          `koanf:"disabled" toml:"disabled"`
	BusyTimeout time.Duration `koanf:"busy_timeout" toml:"busy_timeout"`
}

// Minimal values used when the embedded defaults cannot be decoded.
const (
	DefaultCanonicalName = "aka"
	DefaultMaxDepth      = 9
	DefaultChunkSize     = 4096
	DefaultLineEnding    = "crlf"
)

// Default returns the default configuration
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		return &Config{
			CanonicalName: DefaultCanonicalName,
			MaxDepth:      DefaultMaxDepth,
			Relay:         Relay{ChunkSize: DefaultChunkSize, LineEnding: DefaultLineEnding},
			Cache:         Cache{BusyTimeout: 2 * time.Second},
		}
	}
	return cfg
}

// EditorCommand returns the editor to launch for `aka -e`.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}
