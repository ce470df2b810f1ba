package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogen/internal/version"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for changelogen",
	Example: `  # Show version info
  changelogen version

  # Plain output (for scripts)
  changelogen version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprintf(out, "changelogen %s\n", version.Version)
			fmt.Fprintf(out, "commit: %s\n", version.Commit)
			fmt.Fprintf(out, "built: %s\n", version.BuildDate)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return
		}
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %s\n", cyan("changelogen"), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}
