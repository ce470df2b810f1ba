package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogen/internal/changelog"
	clierrors "github.com/ariel-frischer/changelogen/internal/errors"
	"github.com/ariel-frischer/changelogen/internal/output"
	"github.com/ariel-frischer/changelogen/internal/release"
)

const (
	defaultOutputFile = "CHANGELOG.md"
	defaultLatestFile = "CHANGELOG_latest.md"
	githubOutputEnv   = "GITHUB_OUTPUT"
	fromEnvironment   = "env"
)

// generateFlags holds the generate command flags.
type generateFlags struct {
	version      string
	date         string
	output       string
	latest       string
	githubOutput string
	tag          bool
	dir          string
	dryRun       bool
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "g"},
	Short:   "Insert a section for the next version into the changelog (g)",
	Long: `Generate reads the commits since the latest version tag, renders a section and
inserts it into the changelog file.

The --version flag takes a bump keyword (major, minor, patch, premajor,
preminor, prepatch, prerelease, auto), an explicit version such as v1.2.3,
or "unreleased". "auto" picks major for breaking changes, minor when a
commit prefix is listed in minorPrefixes, and patch otherwise.

An existing section for the same version is replaced. Releasing a version
removes the "Unreleased" section.`,
	Example: `  # Next minor version, written to CHANGELOG.md
  changelogen generate

  # Let the commits decide and tag the release
  changelogen generate --version auto --tag

  # Also write the section alone and expose it to GitHub Actions
  changelogen generate --latest --github-output`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.GroupID = GroupRelease
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd, &genFlags)
}

func addGenerateFlags(cmd *cobra.Command, f *generateFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.version, "version", string(release.Minor), "Bump keyword, explicit version or \"unreleased\"")
	flags.StringVar(&f.date, "date", "", "Release date as YYYY-MM-DD or RFC3339 (default: now)")
	flags.StringVarP(&f.output, "output", "o", defaultOutputFile, "Changelog file to update")
	flags.StringVar(&f.latest, "latest", "", "Also write the section alone to this file")
	flags.Lookup("latest").NoOptDefVal = defaultLatestFile
	flags.StringVar(&f.githubOutput, "github-output", "", "Write changelog, body, version, prevVersion, date, oldChangelog and newChangelog to a GitHub Actions output file (default: $GITHUB_OUTPUT)")
	flags.Lookup("github-output").NoOptDefVal = fromEnvironment
	flags.BoolVar(&f.tag, "tag", false, "Create a lightweight tag for the new version on HEAD")
	flags.StringVarP(&f.dir, "dir", "C", "", "Repository directory (default: current directory)")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Print the section without writing files or tags")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f := genFlags
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if f.dryRun && f.tag {
		return clierrors.InvalidFlagCombination("--dry-run --tag", "A dry run never creates tags; drop one of the flags")
	}
	if f.tag && release.IsUnreleased(f.version) {
		return clierrors.InvalidFlagCombination("--tag --version unreleased", "Only released versions can be tagged")
	}

	date, err := parseDate(f.date)
	if err != nil {
		output.PrintWarning(errOut, err.Error()+"; using the current time")
	}

	s, err := openSession(f.dir, errOut)
	if err != nil {
		return err
	}

	outputPath := resolvePath(f.dir, f.output)
	doc, err := readDocument(outputPath)
	if err != nil {
		return err
	}

	result, err := s.generate(cmd.Context(), errOut, f.version, date, doc)
	if err != nil {
		return err
	}

	output.PrintVersionHeader(errOut, result.Version, result.PrevVersion)
	if len(result.Commits) == 0 {
		output.PrintWarning(errOut, "no commits found since "+previousLabel(result.PrevVersion))
	}

	if f.dryRun {
		fmt.Fprintln(out, result.Changelog)
		output.PrintDryRun(errOut, "nothing was written")
		return nil
	}

	if err := writeDocument(outputPath, result.Document); err != nil {
		return err
	}
	output.PrintSuccess(errOut, "Updated "+outputPath)

	if f.latest != "" {
		latestPath := resolvePath(f.dir, f.latest)
		if err := writeDocument(latestPath, result.Changelog); err != nil {
			return err
		}
		output.PrintSuccess(errOut, "Wrote "+latestPath)
	}

	if err := emitGitHubOutput(f.githubOutput, result, doc, errOut); err != nil {
		return err
	}

	if f.tag {
		if err := s.history.CreateTag(result.Version); err != nil {
			return clierrors.TagCreateError(result.Version, err)
		}
		output.PrintSuccess(errOut, "Tagged "+result.Version)
	}
	return nil
}

// emitGitHubOutput writes the CI outputs when requested. previous is the
// changelog text as it was read before the section was inserted.
func emitGitHubOutput(flag string, result *changelog.Result, previous string, errOut io.Writer) error {
	if flag == "" {
		return nil
	}
	path := flag
	if flag == fromEnvironment {
		path = os.Getenv(githubOutputEnv)
		if path == "" {
			output.PrintWarning(errOut, "$"+githubOutputEnv+" is not set; skipping GitHub outputs")
			return nil
		}
	}

	pairs := []outputPair{
		{Name: "changelog", Value: result.Changelog},
		{Name: "body", Value: result.Body},
		{Name: "version", Value: result.Version},
		{Name: "prevVersion", Value: result.PrevVersion},
		{Name: "date", Value: result.Date},
		{Name: "oldChangelog", Value: previous},
		{Name: "newChangelog", Value: result.Document},
	}
	if err := writeGitHubOutput(path, pairs, errOut); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}

func previousLabel(prev string) string {
	if prev == "" {
		return "the start of history"
	}
	return prev
}
