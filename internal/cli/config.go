package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogen/internal/changelog"
	"github.com/ariel-frischer/changelogen/internal/config"
	clierrors "github.com/ariel-frischer/changelogen/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect changelogen configuration",
	Long: `Inspect changelogen configuration.

Configuration precedence (highest to lowest):
  1. Environment variables (CHANGELOGEN_*, e.g. CHANGELOGEN_LINK_PRS=false)
  2. Project config (.github/changelog.json, or --config)
  3. User config (~/.config/changelogen/config.yml)
  4. Built-in defaults`,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		bold := color.New(color.Bold).SprintFunc()
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			fmt.Fprintf(w, "%s\t%s\t%s\n", bold(key), schema.Type, schema.Description)
		}
		return w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.FindProjectConfig()
		}
		cfg, err := config.LoadWithOptions(config.LoadOptions{
			ProjectConfigPath: path,
			WarningWriter:     cmd.ErrOrStderr(),
		})
		if err != nil {
			return clierrors.ConfigParseError(path, err)
		}

		data, err := json.MarshalIndent(effectiveConfig(cfg), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// shownRule is the JSON form of one rule.
type shownRule struct {
	Key        string `json:"key"`
	Title      string `json:"title,omitempty"`
	Repo       string `json:"repo,omitempty"`
	Suppressed bool   `json:"suppressed,omitempty"`
}

// shownConfig is the JSON form of the effective configuration. Rules are
// lists so their order is visible.
type shownConfig struct {
	Repo                  any         `json:"repo"`
	Prefixes              []shownRule `json:"prefixes"`
	Scopes                []shownRule `json:"scopes"`
	CapitalizeFirstLetter bool        `json:"capitalizeFirstLetter"`
	DedupSameMessages     bool        `json:"dedupSameMessages"`
	LinkPRs               bool        `json:"linkPRs"`
	LinkHashes            bool        `json:"linkHashes"`
	OmittedCommitPattern  string      `json:"omittedCommitPattern"`
	DateFormat            string      `json:"dateFormat"`
	CommitDateFormat      string      `json:"commitDateFormat"`
	VersionTemplate       string      `json:"versionTemplate"`
	ScopeTemplate         string      `json:"scopeTemplate"`
	PrefixTemplate        string      `json:"prefixTemplate"`
	CommitTemplate        string      `json:"commitTemplate"`
	GroupByScope          *bool       `json:"groupByScope"`
	GroupByPrefix         *bool       `json:"groupByPrefix"`
	MinorPrefixes         []string    `json:"minorPrefixes"`
}

func effectiveConfig(cfg *config.Configuration) shownConfig {
	opts := cfg.Options()
	var repo any = cfg.Repo
	if cfg.RepoDisabled {
		repo = false
	}
	return shownConfig{
		Repo:                  repo,
		Prefixes:              showRules(cfg.Prefixes),
		Scopes:                showRules(cfg.Scopes),
		CapitalizeFirstLetter: cfg.CapitalizeFirstLetter,
		DedupSameMessages:     cfg.DedupSameMessages,
		LinkPRs:               cfg.LinkPRs,
		LinkHashes:            cfg.LinkHashes,
		OmittedCommitPattern:  cfg.OmittedCommitPattern,
		DateFormat:            cfg.DateFormat,
		CommitDateFormat:      cfg.CommitDateFormat,
		VersionTemplate:       opts.Templates.Version,
		ScopeTemplate:         opts.Templates.Scope,
		PrefixTemplate:        opts.Templates.Prefix,
		CommitTemplate:        opts.Templates.Commit,
		GroupByScope:          cfg.GroupByScope,
		GroupByPrefix:         cfg.GroupByPrefix,
		MinorPrefixes:         cfg.MinorPrefixes,
	}
}

func showRules(rules changelog.Rules) []shownRule {
	out := make([]shownRule, 0, len(rules))
	for _, e := range rules {
		out = append(out, shownRule{
			Key:        e.Key,
			Title:      e.Rule.Title,
			Repo:       e.Rule.Repo,
			Suppressed: e.Rule.IsSuppressed(),
		})
	}
	return out
}
