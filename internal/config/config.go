// Package config provides hierarchical configuration management for changelogen using koanf.
// Configuration is loaded with priority: environment variables (CHANGELOGEN_*) > project config
// (.github/changelog.json by default) > user config (~/.config/changelogen/config.yml) > defaults.
// JSON and YAML files are both accepted; the ordered prefix and scope maps are decoded from the
// YAML node tree so their declaration order survives.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/changelogen/internal/changelog"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CHANGELOGEN_"

// Configuration represents the changelogen configuration.
type Configuration struct {
	// Repo is "owner/name" or a URL. Empty means auto-detect unless
	// RepoDisabled is set.
	Repo         string `koanf:"-"`
	RepoDisabled bool   `koanf:"-"`

	// Prefixes and Scopes keep declaration order.
	Prefixes changelog.Rules `koanf:"-"`
	Scopes   changelog.Rules `koanf:"-"`

	CapitalizeFirstLetter bool   `koanf:"capitalizeFirstLetter"`
	DedupSameMessages     bool   `koanf:"dedupSameMessages"`
	LinkPRs               bool   `koanf:"linkPRs"`
	LinkHashes            bool   `koanf:"linkHashes"`
	OmittedCommitPattern  string `koanf:"omittedCommitPattern" validate:"omitempty,regexp"`

	DateFormat       string `koanf:"dateFormat" validate:"required"`
	CommitDateFormat string `koanf:"commitDateFormat" validate:"required"`

	VersionTemplate string `koanf:"versionTemplate" validate:"required,template"`
	ScopeTemplate   string `koanf:"scopeTemplate" validate:"omitempty,template"`
	// GroupTemplate is an alias of ScopeTemplate and wins when both are set.
	GroupTemplate  string `koanf:"groupTemplate" validate:"omitempty,template"`
	PrefixTemplate string `koanf:"prefixTemplate" validate:"omitempty,template"`
	CommitTemplate string `koanf:"commitTemplate" validate:"required,template"`

	// GroupByScope forces scope headings; nil means automatic.
	GroupByScope  *bool `koanf:"groupByScope"`
	GroupByPrefix *bool `koanf:"groupByPrefix"`

	MinorPrefixes []string `koanf:"minorPrefixes" validate:"dive,required"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config search. An explicit
	// path must exist.
	ProjectConfigPath string
	// WarningWriter receives unknown-key warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)
	rules := &fileRules{}

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if path, err := UserConfigPath(); err == nil && fileExists(path) {
			if err := loadConfigFile(k, rules, path, "user", warningWriter, opts.SkipWarnings); err != nil {
				return nil, err
			}
		}
	}

	if err := loadProjectConfig(k, rules, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	envRepo, err := loadEnvironmentConfig(k)
	if err != nil {
		return nil, err
	}
	if envRepo != nil {
		rules.Repo, rules.RepoDisabled = parseRepoString(*envRepo)
	}

	return finalizeConfig(k, rules)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the explicit config path, or the first existing
// default location.
func loadProjectConfig(k *koanf.Koanf, rules *fileRules, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	path := customPath
	if path == "" {
		path = FindProjectConfig()
		if path == "" {
			return nil
		}
	} else if !fileExists(path) {
		return &ValidationError{FilePath: path, Message: "config file not found"}
	}
	return loadConfigFile(k, rules, path, "project", warningWriter, skipWarnings)
}

// loadConfigFile validates and loads one JSON or YAML config file.
func loadConfigFile(k *koanf.Koanf, rules *fileRules, path, configType string, warningWriter io.Writer, skipWarnings bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s config %s: %w", configType, path, err)
	}
	if err := ValidateYAMLSyntaxFromBytes(data, path); err != nil {
		return fmt.Errorf("validating syntax for %s config: %w", configType, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}

	fr, err := decodeRules(data, path)
	if err != nil {
		return err
	}
	rules.merge(fr)

	if !skipWarnings {
		for _, key := range fr.Keys {
			if _, ok := KnownKeys[key]; !ok {
				fmt.Fprintf(warningWriter, "Warning: unknown config key %q in %s (ignored)\n", key, path)
			}
		}
	}
	return nil
}

// parserFor picks the koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// merge applies the settings present in other over r.
func (r *fileRules) merge(other *fileRules) {
	if other.HasPrefixes {
		r.Prefixes, r.HasPrefixes = other.Prefixes, true
	}
	if other.HasScopes {
		r.Scopes, r.HasScopes = other.Scopes, true
	}
	if other.HasRepo {
		r.Repo, r.RepoDisabled, r.HasRepo = other.Repo, other.RepoDisabled, true
	}
}

// loadEnvironmentConfig loads environment variable overrides. It returns
// the raw CHANGELOGEN_REPO value when set, since repo accepts "false".
func loadEnvironmentConfig(k *koanf.Koanf) (*string, error) {
	ek := koanf.New(".")
	if err := ek.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var repo *string
	if ek.Exists("repo") {
		v := ek.String("repo")
		repo = &v
		ek.Delete("repo")
	}
	if err := k.Merge(ek); err != nil {
		return nil, fmt.Errorf("merging environment config: %w", err)
	}
	return repo, nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOGEN_LINK_PRS -> linkPRs. List values are comma separated.
func envTransform(key, value string) (string, any) {
	path := lookupEnvKey(strings.TrimPrefix(key, EnvPrefix))
	if schema, ok := KnownKeys[path]; ok && schema.Type == TypeStringList {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return path, items
	}
	return path, value
}

// parseRepoString interprets a repo value given as plain text.
func parseRepoString(s string) (repo string, disabled bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "false") {
		return "", true
	}
	return s, false
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf, rules *fileRules) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Repo = rules.Repo
	cfg.RepoDisabled = rules.RepoDisabled
	cfg.Prefixes = rules.Prefixes
	cfg.Scopes = rules.Scopes

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Default returns the configuration used when no file or environment
// override exists.
func Default() *Configuration {
	k := koanf.New(".")
	loadDefaults(k)
	cfg, err := finalizeConfig(k, &fileRules{})
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// NeedsRepoDetection reports whether links should use the repository
// detected from the origin remote.
func (c *Configuration) NeedsRepoDetection() bool {
	return c.Repo == "" && !c.RepoDisabled
}

// Options converts the configuration into changelog rendering options.
func (c *Configuration) Options() changelog.Options {
	opts := changelog.Options{
		Prefixes:              c.Prefixes,
		Scopes:                c.Scopes,
		CapitalizeFirstLetter: c.CapitalizeFirstLetter,
		DedupSameMessages:     c.DedupSameMessages,
		LinkPRs:               c.LinkPRs,
		LinkHashes:            c.LinkHashes,
		OmitPattern:           c.OmittedCommitPattern,
		DateFormat:            c.DateFormat,
		CommitDateFormat:      c.CommitDateFormat,
		GroupByScope:          c.GroupByScope,
		GroupByPrefix:         c.GroupByPrefix,
		Templates: changelog.Templates{
			Version: c.VersionTemplate,
			Scope:   c.ScopeTemplate,
			Prefix:  c.PrefixTemplate,
			Commit:  c.CommitTemplate,
		},
	}
	if c.GroupTemplate != "" {
		opts.Templates.Scope = c.GroupTemplate
	}
	if !c.RepoDisabled {
		opts.Repo = c.Repo
	}
	return opts
}
