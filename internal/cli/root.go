// Package cli implements the changelogen command line.
package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/changelogen/internal/errors"
	"github.com/ariel-frischer/changelogen/internal/git"
)

// Command group IDs for help output.
const (
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "changelogen",
	Short: "Generate a changelog section from conventional commits",
	Long: `changelogen reads the commits since the latest version tag, groups them by
scope and prefix, renders a markdown section and inserts it into CHANGELOG.md.

Running changelogen without a subcommand runs 'changelogen generate'.

Configuration precedence (highest to lowest):
  1. Environment variables (CHANGELOGEN_*)
  2. Project config (.github/changelog.json, or --config)
  3. User config (~/.config/changelogen/config.yml)
  4. Built-in defaults`,
	Example: `  # Add a section for the next minor version
  changelogen

  # Preview a patch release without writing anything
  changelogen preview --version patch

  # Collect changes under "Unreleased"
  changelogen generate --version unreleased`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			git.SetDebugLogger(log.Printf)
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: .github/changelog.json)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log repository access to stderr")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetArgs(withDefaultCommand(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			clierrors.FprintAny(os.Stderr, err)
		}
		return ExitCode(err)
	}
	return ExitSuccess
}

// withDefaultCommand routes bare invocations and flag-only invocations to
// the generate command.
func withDefaultCommand(args []string) []string {
	if len(args) == 0 {
		return []string{"generate"}
	}
	first := args[0]
	switch first {
	case "-h", "--help", "help", "completion", "__complete", "__completeNoDesc":
		return args
	}
	if first[0] != '-' {
		return args
	}
	return append([]string{"generate"}, args...)
}
