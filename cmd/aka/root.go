package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/aka/internal/version"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/shell"
	"github.com/arthur-debert/aka/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const helpWidth = 80

// NewRootCmd builds the front end used when aka runs under its own name.
// Flag parsing stops at the first positional argument, which keeps the
// arguments of `aka NAME ARGS...` intact for the alias.
func NewRootCmd(a *App) *cobra.Command {
	var (
		verbosity  int
		printCache bool
		timestamps bool
		rebuild    bool
		edit       bool
		output     string
		showConfig bool
		completion string
	)

	rootCmd := &cobra.Command{
		Use:     "aka [NAME [ARGS...] | NAME=VALUE]",
		Short:   MsgRootShort,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.verbosity = max(verbosity, logging.VerbosityFromEnv())
			logging.SetupLogger(a.verbosity)
			a.warnConfig()
			log.Debug().Str("command", cmd.Name()).Strs("args", args).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case len(args) > 0 && args[0] == "/?":
				return cmd.Help()
			case showConfig:
				return writeConfig(out, a)
			case completion != "":
				return writeCompletion(cmd, completion)
			case rebuild:
				return runRebuild(cmd, a)
			case edit:
				l, err := a.newLauncher()
				if err != nil {
					return err
				}
				return l.Edit(cmd.Context())
			case printCache || len(args) == 0:
				format, err := ui.ParseFormat(output)
				if err != nil {
					return err
				}
				l, err := a.newLauncher()
				if err != nil {
					return err
				}
				return ui.RenderList(out, l.List(cmd.Context()), ui.ListOptions{
					Format:     format,
					Timestamps: timestamps,
				})
			}

			if name, value, ok := shell.ParseDefinition(args[0]); ok {
				_, err := fmt.Fprintln(out, shell.AliasSnippet(name, value))
				return err
			}
			a.exitCode = a.dispatch(cmd.Context(), strings.ToLower(args[0]), args[1:])
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.Flags()
	flags.SetInterspersed(false)
	flags.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.BoolVarP(&printCache, "print", "p", false, "Print the cached aliases")
	flags.BoolVarP(&timestamps, "timestamps", "t", false, "Include cache timestamps when printing")
	flags.BoolVarP(&rebuild, "rebuild", "r", false, "Rebuild the cache and the alias links")
	flags.BoolVarP(&edit, "edit", "e", false, "Open the alias file in an editor")
	flags.StringVar(&output, "output", "auto", "Listing format: auto, term, text, json or yaml")
	flags.BoolVar(&showConfig, "show-config", false, "Print the effective launcher settings")
	flags.StringVar(&completion, "completion", "", "Print a completion script for bash, zsh, fish or powershell")

	rootCmd.SetVersionTemplate(fmt.Sprintf(MsgVersionFormat, version.Version, version.Commit, version.Date))
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		styled := ui.FormatAuto.Resolve(out) == ui.FormatTerminal
		_, _ = fmt.Fprintln(out, ui.RenderMarkdown(msgHelp, styled, helpWidth))
	})

	return rootCmd
}

func writeConfig(w io.Writer, a *App) error {
	if a.cfgErr != nil {
		return a.cfgErr
	}
	text, err := a.cfg.ToTOML()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot render settings")
	}
	_, err = io.WriteString(w, text)
	return err
}

func writeCompletion(cmd *cobra.Command, shellName string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()
	switch shellName {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unsupported shell: %s", shellName)
	}
}

func runRebuild(cmd *cobra.Command, a *App) error {
	l, err := a.newLauncher()
	if err != nil {
		return err
	}
	report, err := l.Rebuild(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, MsgRebuildSummary, len(report.Resolved), len(report.Failures))
	for _, f := range report.Failures {
		_, _ = fmt.Fprintf(out, MsgRebuildFailure, f.Line, ui.Message(f.Err))
	}

	if report.LinkErr != nil {
		return report.LinkErr
	}
	links := report.Links
	_, _ = fmt.Fprintf(out, MsgLinksSummary, len(links.Created), len(links.Removed), len(links.Kept))
	for _, name := range links.Skipped {
		_, _ = fmt.Fprintf(out, MsgLinkSkipped, name)
	}
	failed := make([]string, 0, len(links.Failed))
	for name := range links.Failed {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		_, _ = fmt.Fprintf(out, MsgLinkFailed, name, links.Failed[name])
	}

	if len(report.Failures) > 0 {
		a.exitCode = 1
	}
	return nil
}
