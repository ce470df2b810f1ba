package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrConfigExists is returned by WriteDefault when the target exists and
// force is not set.
var ErrConfigExists = errors.New("config file already exists")

// GetDefaultConfigTemplate returns a fully commented YAML config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Changelogen Configuration
# See 'changelogen config keys' for all options

# Links: "owner/name", a URL, or false to disable. Empty auto-detects origin.
repo: ""

# Section titles in display order. false hides a key, "" shows it without heading.
prefixes:
  feat: Features
  fix: Bug Fixes
  perf: Performance
  refactor: Refactoring
  docs: Documentation
  chore: false
scopes: {}

capitalizeFirstLetter: true           # Upper-case the first letter of entries
dedupSameMessages: true               # Show identical subjects once
linkPRs: true                         # #123 -> pull request link
linkHashes: true                      # abc123 -> commit link
# omittedCommitPattern: ""            # Regexp of subjects to drop (default: bare versions)

dateFormat: YYYY-MM-DD                # Release date (YYYY, YY, MM, DD, HH, mm, ss)
commitDateFormat: YYYY-MM-DD          # {{commitDate}} in commitTemplate

# Templates use {{name}}, {{#name}}...{{/name}} and {{^name}}...{{/name}}
# versionTemplate: "{{#unreleased}}## Unreleased{{/unreleased}}{{^unreleased}}## {{version}} - {{date}}{{/unreleased}}"
# scopeTemplate: "{{heading}} {{title}}"
# prefixTemplate: "{{heading}} {{title}}"
# commitTemplate: "- {{subject}}{{#shortHash}} ` + "`{{shortHash}}`" + `{{/shortHash}}"

# groupByScope: true                  # Unset: headings when any commit has a scope
# groupByPrefix: true                 # false lists entries without prefix headings

minorPrefixes:                        # Prefixes that make --version auto bump minor
  - feat
`
}

// GetDefaultJSONTemplate returns the JSON config written to .json paths.
func GetDefaultJSONTemplate() string {
	return `{
  "repo": "",
  "prefixes": {
    "feat": "Features",
    "fix": "Bug Fixes",
    "perf": "Performance",
    "refactor": "Refactoring",
    "docs": "Documentation",
    "chore": false
  },
  "scopes": {},
  "capitalizeFirstLetter": true,
  "dedupSameMessages": true,
  "linkPRs": true,
  "linkHashes": true,
  "dateFormat": "YYYY-MM-DD",
  "commitDateFormat": "YYYY-MM-DD",
  "minorPrefixes": ["feat"]
}
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	defaults := make(map[string]interface{}, len(KnownKeys))
	for path, schema := range KnownKeys {
		if schema.Default == nil {
			continue
		}
		if list, ok := schema.Default.([]string); ok {
			defaults[path] = append([]string(nil), list...)
			continue
		}
		defaults[path] = schema.Default
	}
	return defaults
}

// WriteDefault writes the default config template to path, choosing JSON or
// YAML by extension. Parent directories are created.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	content := GetDefaultConfigTemplate()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		content = GetDefaultJSONTemplate()
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
