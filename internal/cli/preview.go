package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogen/internal/changelog"
	"github.com/ariel-frischer/changelogen/internal/output"
	"github.com/ariel-frischer/changelogen/internal/release"
)

var (
	previewVersion string
	previewDate    string
	previewDir     string
	previewCommits bool
	previewPlain   bool
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"p"},
	Short:   "Show the section generate would write (p)",
	Long: `Preview renders the section for the next version and prints it with terminal
styling. Nothing is written and no tag is created.

Use --commits to list how every commit was classified.`,
	Example: `  # Preview the next minor version
  changelogen preview

  # Show the classified commits as well
  changelogen preview --version auto --commits

  # Plain output (no colors)
  changelogen preview --plain`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.GroupID = GroupRelease
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewVersion, "version", string(release.Minor), "Bump keyword, explicit version or \"unreleased\"")
	previewCmd.Flags().StringVar(&previewDate, "date", "", "Release date as YYYY-MM-DD or RFC3339 (default: now)")
	previewCmd.Flags().StringVarP(&previewDir, "dir", "C", "", "Repository directory (default: current directory)")
	previewCmd.Flags().BoolVar(&previewCommits, "commits", false, "List the classified commits")
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "Plain text output (no colors)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	date, err := parseDate(previewDate)
	if err != nil {
		output.PrintWarning(errOut, err.Error()+"; using the current time")
	}

	s, err := openSession(previewDir, errOut)
	if err != nil {
		return err
	}

	result, err := s.generate(cmd.Context(), errOut, previewVersion, date, "")
	if err != nil {
		return err
	}

	opts := changelog.FormatOptions{Plain: previewPlain}

	fmt.Fprintf(out, "Version: %s\n", result.Version)
	if result.PrevVersion != "" {
		line := fmt.Sprintf("Previous: %s", result.PrevVersion)
		if when, err := s.history.TagDate(result.PrevVersion); err == nil {
			line += " (" + changelog.FormatDate(when, s.cfg.DateFormat) + ")"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Commits: %d\n\n", len(result.Commits))

	if previewCommits && len(result.Commits) > 0 {
		for _, c := range result.Commits {
			fmt.Fprintln(out, changelog.FormatCommitSummary(c, opts))
		}
		fmt.Fprintln(out)
	}

	return changelog.FormatPreview(out, result.Changelog, opts)
}
