package execution

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Runner. Nil streams default to the process's own.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the complete environment block for the child.
	Env []string

	ChunkSize       int
	ConsoleEncoding string
	// LineEnding names the terminator of prefixed lines, see LineTerminator.
	LineEnding string

	// Now feeds time specifiers in prefixes; defaults to time.Now.
	Now func() time.Time
}

// Runner spawns alias targets.
type Runner struct {
	opts   Options
	logger zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ConsoleEncoding == "" {
		opts.ConsoleEncoding = DefaultEncoding
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts, logger: logging.GetLogger("execution")}
}

// Run launches s with the caller's arguments and returns the exit code to
// report. The error is set only when the child could not be started or the
// command line could not be built.
func (r *Runner) Run(ctx context.Context, s *types.Settings, callerArgs []string) (int, error) {
	cl, err := Build(s, callerArgs)
	if err != nil {
		return errors.ExitCode(err), err
	}
	logging.LogCommand(r.logger, s.Key, cl.Path, cl.Argv[1:])

	if !s.NeedsRelay() {
		return r.Execute(ctx, cl, s.ExecMode)
	}

	prefix, hasPrefix := r.active(s.Prefix, cl.Joined, "PREFIX")
	charset, hasCharset := r.active(s.Charset, cl.Joined, "CHARSET_CONV")
	if !hasPrefix && !hasCharset {
		return r.Execute(ctx, cl, s.ExecMode)
	}
	if s.ExecMode != types.ExecModeDisabled {
		r.logger.Debug().Int("exec", s.ExecMode).Msg("Output relay keeps the launcher attached, EXEC ignored")
	}

	conv, err := ParseConversion(charset, r.opts.ConsoleEncoding)
	if err != nil {
		r.logger.Warn().Err(err).Str("alias", s.Key).Msg("Character set conversion disabled")
		conv, err = ParseConversion("", r.opts.ConsoleEncoding)
		if err != nil {
			conv, _ = ParseConversion(DefaultEncoding, DefaultEncoding)
		}
	}
	return r.ExecuteWithOutputProcessing(ctx, cl, prefix, hasPrefix, conv)
}

// active returns a conditional's value when it applies to the joined
// arguments. A broken trigger pattern is reported and the value dropped.
func (r *Runner) active(c *types.Conditional, joined, keyword string) (string, bool) {
	if c == nil {
		return "", false
	}
	ok, err := c.Applies(joined)
	if err != nil {
		r.logger.Warn().Err(err).Str("keyword", keyword).Msg("Ignoring conditional value")
		return "", false
	}
	return c.Value, ok
}

func (r *Runner) command(ctx context.Context, cl *CommandLine) *exec.Cmd {
	cmd := exec.CommandContext(ctx, cl.Path)
	cmd.Args = cl.Argv
	cmd.Env = r.opts.Env
	cmd.Stdin = r.opts.Stdin
	return cmd
}

// Execute runs the child on the launcher's own handles. execMode -1 waits
// for it; 0 returns at once; N waits at most N seconds. A child still
// running when the launcher stops waiting is left to run.
func (r *Runner) Execute(ctx context.Context, cl *CommandLine, execMode int) (int, error) {
	cmd := r.command(context.WithoutCancel(ctx), cl)
	cmd.Stdout = r.opts.Stdout
	cmd.Stderr = r.opts.Stderr

	if err := cmd.Start(); err != nil {
		return r.spawnFailed(cl, err)
	}

	switch {
	case execMode == types.ExecModeDisabled:
		return exitStatus(cmd.Wait())
	case execMode == 0:
		r.logger.Debug().Int("pid", cmd.Process.Pid).Msg("Detached")
		_ = cmd.Process.Release()
		return 0, nil
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(time.Duration(execMode) * time.Second)
	defer timer.Stop()
	select {
	case err := <-done:
		return exitStatus(err)
	case <-timer.C:
		r.logger.Debug().Int("pid", cmd.Process.Pid).Int("after", execMode).Msg("Detached")
		return 0, nil
	}
}

// ExecuteWithOutputProcessing runs the child with stdout and stderr on a
// pipe and relays its output through the prefix and conversion.
func (r *Runner) ExecuteWithOutputProcessing(ctx context.Context, cl *CommandLine, prefix string, hasPrefix bool, conv *Conversion) (int, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return r.spawnFailed(cl, err)
	}

	cmd := r.command(ctx, cl)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return r.spawnFailed(cl, err)
	}
	// the child holds its own copy; closing ours lets the read side see EOF
	_ = pw.Close()

	rl := newRelay(r.opts.Stdout, conv, prefix, hasPrefix, r.opts.ChunkSize, cmd.Process.Pid, r.opts.Now)
	rl.newline = LineTerminator(r.opts.LineEnding)
	relayErr := rl.run(pr)
	_ = pr.Close()
	if relayErr != nil {
		r.logger.Debug().Err(relayErr).Msg("Output relay interrupted")
	}

	return exitStatus(cmd.Wait())
}

func (r *Runner) spawnFailed(cl *CommandLine, err error) (int, error) {
	wrapped := errors.Wrapf(err, errors.ErrSpawn, "cannot start %s", cl.Path).
		WithDetail("path", cl.Path)
	return errors.ExitCode(wrapped), wrapped
}

// exitStatus turns a Wait result into the code to report.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		return 1, nil
	}
	return 1, errors.Wrap(err, errors.ErrSpawn, "lost track of the child process")
}
