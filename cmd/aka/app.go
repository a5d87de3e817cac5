package main

import (
	"context"
	"io"
	"strings"

	"github.com/arthur-debert/aka/pkg/config"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/launcher"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/paths"
	"github.com/arthur-debert/aka/pkg/ui"
	"github.com/rs/zerolog/log"
)

// App holds the process boundary: standard streams, environment and the
// pieces built from them.
type App struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ []string

	// ProfileDir overrides AKA_PROFILE_DIR; Self and LinkDir override the
	// running executable. Tests set them.
	ProfileDir string
	Self       string
	LinkDir    string

	cfg       *config.Config
	cfgErr    error
	verbosity int
	exitCode  int
}

// Main runs aka for argv and returns the process exit code. Under its
// canonical name it is the maintenance front end; under any other name it
// runs the alias of that name.
func (a *App) Main(ctx context.Context, argv []string) int {
	if len(argv) == 0 {
		argv = []string{config.DefaultCanonicalName}
	}

	a.cfg = a.loadConfig()
	key := launcher.KeyFromInvocation(argv[0])
	if key != strings.ToLower(a.cfg.CanonicalName) {
		a.verbosity = logging.VerbosityFromEnv()
		logging.SetupLogger(a.verbosity)
		a.warnConfig()
		log.Debug().Str("alias", key).Msg("Invoked as alias")
		return a.dispatch(ctx, key, argv[1:])
	}

	root := NewRootCmd(a)
	root.SetArgs(argv[1:])
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return a.fail(err)
	}
	return a.exitCode
}

// loadConfig falls back to the defaults when the settings cannot be
// loaded. The error is kept for warnConfig and --show-config.
func (a *App) loadConfig() *config.Config {
	p, err := paths.New(a.ProfileDir)
	if err != nil {
		a.cfgErr = err
		return config.Default()
	}
	cfg, err := config.Load(p.SettingsFile())
	if err != nil {
		a.cfgErr = err
		return config.Default()
	}
	return cfg
}

// warnConfig reports a settings error once the logger is set up.
func (a *App) warnConfig() {
	if a.cfgErr != nil {
		log.Warn().Err(a.cfgErr).Msg("Launcher settings not loaded, using defaults")
	}
}

func (a *App) newLauncher() (*launcher.Launcher, error) {
	p, err := paths.New(a.ProfileDir)
	if err != nil {
		return nil, err
	}
	return launcher.New(launcher.Options{
		Paths:   p,
		Config:  a.cfg,
		Stdin:   a.Stdin,
		Stdout:  a.Stdout,
		Stderr:  a.Stderr,
		Environ: a.Environ,
		Self:    a.Self,
		LinkDir: a.LinkDir,
	}), nil
}

// dispatch runs an alias and reports aka's own failures on stderr.
func (a *App) dispatch(ctx context.Context, name string, args []string) int {
	l, err := a.newLauncher()
	if err != nil {
		return a.fail(err)
	}
	code, err := l.Run(ctx, name, args)
	if err != nil {
		a.report(err)
	}
	return code
}

func (a *App) fail(err error) int {
	a.report(err)
	return errors.ExitCode(err)
}

func (a *App) report(err error) {
	styled := ui.FormatAuto.Resolve(a.Stderr) == ui.FormatTerminal
	ui.RenderError(a.Stderr, err, styled, a.verbosity > 0)
}
