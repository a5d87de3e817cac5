package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/aka/pkg/errors"
)

// Environment variable names
const (
	// EnvProfileDir overrides the directory holding .alias and .alias.db
	EnvProfileDir = "AKA_PROFILE_DIR"

	// EnvConfigDir overrides the XDG config directory for aka
	EnvConfigDir = "AKA_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for aka-specific files
	AppDirName = "aka"

	// ConfigFileName is the alias configuration file in the profile directory
	ConfigFileName = ".alias"

	// CacheFileName is the resolution cache store in the profile directory
	CacheFileName = ".alias.db"

	// SettingsFileName is the launcher settings file in the config directory
	SettingsFileName = "aka.toml"

	// LogFileName is the name of the log file
	LogFileName = "aka.log"
)

// Paths provides centralized path management for aka
type Paths interface {
	ProfileDir() string
	ConfigFile() string
	CacheFile() string
	ConfigDir() string
	SettingsFile() string
	StateDir() string
	LogFilePath() string
	Executable() string
	ExecutableDir() string
}

type paths struct {
	profileDir string
	xdgConfig  string
	xdgState   string
	executable string
}

// New creates a Paths instance. An empty profileDir is taken from
// AKA_PROFILE_DIR, falling back to the user's home directory.
func New(profileDir string) (Paths, error) {
	p := &paths{}

	if profileDir == "" {
		profileDir = os.Getenv(EnvProfileDir)
	}
	if profileDir == "" {
		profileDir = xdg.Home
	}
	abs, err := filepath.Abs(ExpandHome(profileDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for profile directory")
	}
	p.profileDir = abs

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// XDG doesn't provide StateHome everywhere, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, AppDirName)
	} else {
		p.xdgState = filepath.Join(p.home(), ".local", "state", AppDirName)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to locate the running executable")
	}
	p.executable = exe

	return p, nil
}

func (p *paths) home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return p.profileDir
	}
	return home
}

func (p *paths) ProfileDir() string {
	return p.profileDir
}

func (p *paths) ConfigFile() string {
	return filepath.Join(p.profileDir, ConfigFileName)
}

func (p *paths) CacheFile() string {
	return filepath.Join(p.profileDir, CacheFileName)
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) SettingsFile() string {
	return filepath.Join(p.xdgConfig, SettingsFileName)
}

func (p *paths) StateDir() string {
	return p.xdgState
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// Executable returns the launcher binary as reported by the OS.
func (p *paths) Executable() string {
	return p.executable
}

func (p *paths) ExecutableDir() string {
	return filepath.Dir(p.executable)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == '\\' {
		return filepath.Join(homeDir, path[2:])
	}
	// ~user forms are left alone
	return path
}

// Canonical resolves symlinks and returns an absolute, cleaned path.
// When the path cannot be resolved it is returned cleaned and absolute
// as far as possible.
func Canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

// SamePath compares two paths after canonicalization. Comparison is
// case-insensitive on platforms whose filesystems usually are.
func SamePath(a, b string) bool {
	return SameName(Canonical(a), Canonical(b))
}

// SameName compares names or already-canonical paths with the platform's
// usual case sensitivity.
func SameName(a, b string) bool {
	if caseInsensitiveFS {
		return strings.EqualFold(a, b)
	}
	return a == b
}
