package launcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/aka/pkg/cache"
	"github.com/arthur-debert/aka/pkg/config"
	"github.com/arthur-debert/aka/pkg/directive"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/execution"
	"github.com/arthur-debert/aka/pkg/filesystem"
	"github.com/arthur-debert/aka/pkg/guard"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/paths"
	"github.com/arthur-debert/aka/pkg/resolver"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Launcher. Only Paths is required.
type Options struct {
	Paths  paths.Paths
	Config *config.Config
	FS     types.FS

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environ is the environment the launcher was started with; children
	// get a copy plus the alias's variables.
	Environ []string

	// Self is the launcher executable and LinkDir the directory holding
	// the alias links. Both default to the running executable.
	Self    string
	LinkDir string

	Getwd func() (string, error)
	Now   func() time.Time
}

// Launcher runs aliases and maintains the cache.
type Launcher struct {
	paths    paths.Paths
	cfg      *config.Config
	fs       types.FS
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	environ  []string
	env      map[string]string
	self     string
	linkDir  string
	now      func() time.Time
	resolver *resolver.Resolver
	logger   zerolog.Logger
}

// New creates a Launcher.
func New(opts Options) *Launcher {
	l := &Launcher{
		paths:   opts.Paths,
		cfg:     opts.Config,
		fs:      opts.FS,
		stdin:   opts.Stdin,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		environ: opts.Environ,
		self:    opts.Self,
		linkDir: opts.LinkDir,
		now:     opts.Now,
		logger:  logging.GetLogger("launcher"),
	}
	if l.cfg == nil {
		l.cfg = config.Default()
	}
	if l.fs == nil {
		l.fs = filesystem.NewOS()
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.environ == nil {
		l.environ = os.Environ()
	}
	if l.self == "" {
		l.self = paths.Canonical(opts.Paths.Executable())
	}
	if l.linkDir == "" {
		l.linkDir = filepath.Dir(l.self)
	}
	if l.now == nil {
		l.now = time.Now
	}

	l.env = make(map[string]string, len(l.environ))
	for _, kv := range l.environ {
		if name, value, ok := strings.Cut(kv, "="); ok {
			l.env[name] = value
		}
	}

	l.resolver = resolver.New(resolver.Options{
		FS:     l.fs,
		Self:   l.self,
		Getenv: l.getenv,
		Getwd:  opts.Getwd,
	})
	return l
}

func (l *Launcher) getenv(name string) string {
	return l.env[name]
}

func (l *Launcher) lookupEnv(name string) (string, bool) {
	v, ok := l.env[name]
	return v, ok
}

// KeyFromInvocation turns the name aka was started under into an alias
// key: base name, extension stripped, lowercased.
func KeyFromInvocation(argv0 string) string {
	base := filepath.Base(strings.ReplaceAll(argv0, `\`, "/"))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToLower(base)
}

// Run executes the alias name with the caller's arguments and returns the
// exit code to report. A non-nil error explains a failure of aka itself.
// The name is matched case-insensitively and used as is; callers holding
// an invocation path convert it with KeyFromInvocation first.
func (l *Launcher) Run(ctx context.Context, name string, args []string) (int, error) {
	depth, err := guard.Enter(l.lookupEnv, l.cfg.MaxDepth)
	if err != nil {
		return errors.ExitCode(err), err
	}

	if err := l.EnsureConfig(); err != nil {
		l.logger.Warn().Err(err).Msg("Alias configuration unavailable")
	}

	store := l.openStore(ctx)
	defer func() { _ = store.Close() }()

	key := strings.ToLower(name)
	s, err := l.settingsFor(ctx, store, key)
	if err != nil {
		return errors.ExitCode(err), err
	}

	runner := execution.NewRunner(execution.Options{
		Stdin:           l.stdin,
		Stdout:          l.stdout,
		Stderr:          l.stderr,
		Env:             execution.BuildEnv(l.environ, s, depth.EnvVar()),
		ChunkSize:       l.cfg.Relay.ChunkSize,
		ConsoleEncoding: execution.ConsoleEncoding(l.cfg.Relay.ConsoleEncoding, l.getenv),
		LineEnding:      l.cfg.Relay.LineEnding,
		Now:             l.now,
	})
	return runner.Run(ctx, s, args)
}

// settingsFor answers from the cache when it is fresh and otherwise parses
// and resolves, refreshing the cache.
func (l *Launcher) settingsFor(ctx context.Context, store *cache.Store, key string) (*types.Settings, error) {
	configPath := l.paths.ConfigFile()
	g := guard.New(l.resolver, store, configPath)

	if store.IsValid(configPath) {
		if s, ok := store.Get(ctx, key); ok {
			l.logger.Debug().Str("alias", key).Str("path", s.Path).Msg("Cache hit")
			return g.Check(ctx, s)
		}
	} else {
		l.logger.Debug().Msg("Configuration changed, clearing cache")
		store.Clear(ctx)
	}

	s, err := l.resolveAlias(key)
	if err != nil {
		return nil, err
	}
	s, err = g.Check(ctx, s)
	if err != nil {
		return nil, err
	}
	store.Put(ctx, s)
	return s, nil
}

// resolveAlias runs the slow path for one alias.
func (l *Launcher) resolveAlias(key string) (*types.Settings, error) {
	configPath := l.paths.ConfigFile()
	s, err := directive.ParseFile(configPath, key)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrAliasNotFound) {
			return nil, l.notFound(key, configPath)
		}
		return nil, err
	}
	return l.resolveParsed(s, configPath)
}

func (l *Launcher) resolveParsed(s *types.Settings, configPath string) (*types.Settings, error) {
	target := directive.Target(s)
	path, err := l.resolver.Resolve(target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTargetNotFound,
			"alias '%s' (%s line %d): cannot resolve '%s'", s.Name, configPath, s.Line, target).
			WithDetail("alias", s.Name).
			WithDetail("line", s.Line).
			WithDetail("pattern", target)
	}
	s.Path = path
	l.logger.Debug().Str("alias", s.Key).Str("path", path).Msg("Resolved")
	return s, nil
}

func (l *Launcher) notFound(key, configPath string) error {
	err := errors.Newf(errors.ErrAliasNotFound, "alias '%s' not found in %s", key, configPath).
		WithDetail("alias", key)
	if suggestions := l.Suggest(key); len(suggestions) > 0 {
		err = errors.Newf(errors.ErrAliasNotFound, "alias '%s' not found in %s; did you mean %s?",
			key, configPath, strings.Join(suggestions, ", ")).
			WithDetail("alias", key).
			WithDetail("suggestions", suggestions)
	}
	return err
}

// EnsureConfig creates an empty alias configuration if none exists.
func (l *Launcher) EnsureConfig() error {
	configPath := l.paths.ConfigFile()
	if _, err := l.fs.Stat(configPath); err == nil {
		return nil
	}
	if err := l.fs.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(configPath))
	}
	if err := l.fs.WriteFile(configPath, nil, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", configPath).
			WithDetail("path", configPath)
	}
	l.logger.Info().Str("path", configPath).Msg("Created empty alias configuration")
	return nil
}

// openStore returns the cache, or nil when it is disabled or unusable.
func (l *Launcher) openStore(ctx context.Context) *cache.Store {
	if l.cfg.Cache.Disabled {
		return nil
	}
	store, err := cache.Open(ctx, l.paths.CacheFile(), cache.Options{
		BusyTimeout: l.cfg.Cache.BusyTimeout,
		Now:         l.now,
	})
	if err != nil {
		l.logger.Debug().Err(err).Msg("Cache unavailable")
		if errors.IsErrorCode(err, errors.ErrCacheCorrupt) {
			_ = os.Remove(l.paths.CacheFile())
		}
		return nil
	}
	return store
}
