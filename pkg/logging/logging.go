package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvVerbose carries the verbosity for alias invocations, which cannot
// take flags of their own because every argument belongs to the target.
const EnvVerbose = "AKA_VERBOSE"

// levels maps -v counts to zerolog levels; anything beyond is trace.
var levels = []zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.DebugLevel}

// current log file, closed when the logger is set up again
var logFile *os.File

// SetupLogger configures the global logger for the given verbosity. Records
// go to stderr and are appended to the aka log file. Every record carries the
// process id, since nested alias runs share one log file.
func SetupLogger(verbosity int) {
	level := zerolog.TraceLevel
	if verbosity >= 0 && verbosity < len(levels) {
		level = levels[verbosity]
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd()),
	}}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logPath := getLogFilePath()
	file, err := setupLogFile(logPath)
	if err == nil {
		logFile = file
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Int("pid", os.Getpid())
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if err != nil {
		log.Debug().Err(err).Msg("Logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logPath).Msg("Logger initialized")
}

// VerbosityFromEnv reads AKA_VERBOSE, returning 0 when unset or malformed.
func VerbosityFromEnv() int {
	v, err := strconv.Atoi(os.Getenv(EnvVerbose))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// getLogFilePath returns the path to the log file
// It respects XDG_STATE_HOME if set, otherwise uses ~/.local/state/aka/
func getLogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "aka.log"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "aka", "aka.log")
}

// setupLogFile opens the log file for appending, creating its directory.
func setupLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(logPath))
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileCreate, "cannot open log file %s", logPath)
	}
	return file, nil
}

// LogCommand records the process about to be started for an alias.
func LogCommand(logger zerolog.Logger, alias, path string, args []string) {
	logger.Debug().
		Str("alias", alias).
		Str("path", path).
		Strs("args", args).
		Msg("Launching")
}

// LogOperationStart logs the start of a maintenance operation and returns a
// function that logs its completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Info().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Info().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
