package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogen/internal/config"
	clierrors "github.com/ariel-frischer/changelogen/internal/errors"
	"github.com/ariel-frischer/changelogen/internal/output"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default changelogen config file",
	Long: `Write a config file with the default settings and common prefix titles.

The default path is .github/changelog.json. Paths ending in .yml or .yaml get
a commented YAML template instead. An existing file is left unchanged unless
--force is given.`,
	Example: `  # Create .github/changelog.json
  changelogen init

  # Create a commented YAML config
  changelogen init .github/changelog.yml

  # Overwrite an existing config
  changelogen init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultProjectConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		return runInit(cmd, path, initForce)
	},
}

func init() {
	initCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, path string, force bool) error {
	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return clierrors.ConfigExists(path)
		}
		return clierrors.FileNotWritable(path, err)
	}
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s", path))
	return nil
}
