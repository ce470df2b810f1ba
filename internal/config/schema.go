package config

import (
	"sort"
	"strings"

	"github.com/ariel-frischer/changelogen/internal/changelog"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeString
	TypeStringList
	TypeRepo
	TypeRules
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeStringList:
		return "string list"
	case TypeRepo:
		return "string | false"
	case TypeRules:
		return "map of string | {title, repo} | false"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key.
type ConfigKeySchema struct {
	Path        string
	Type        ConfigValueType
	Description string
	// Default is nil for keys without a default value.
	Default any
}

// KnownKeys is the registry of all configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"repo": {
		Path:        "repo",
		Type:        TypeRepo,
		Description: "Repository for links (owner/name or URL); false disables links; empty auto-detects origin",
	},
	"prefixes": {
		Path:        "prefixes",
		Type:        TypeRules,
		Description: "Commit prefix titles in display order",
	},
	"scopes": {
		Path:        "scopes",
		Type:        TypeRules,
		Description: "Commit scope titles in display order",
	},
	"capitalizeFirstLetter": {
		Path:        "capitalizeFirstLetter",
		Type:        TypeBool,
		Description: "Capitalize the first letter of each entry",
		Default:     true,
	},
	"dedupSameMessages": {
		Path:        "dedupSameMessages",
		Type:        TypeBool,
		Description: "Show commits with identical subjects once",
		Default:     true,
	},
	"linkPRs": {
		Path:        "linkPRs",
		Type:        TypeBool,
		Description: "Turn #123 references into pull request links",
		Default:     true,
	},
	"linkHashes": {
		Path:        "linkHashes",
		Type:        TypeBool,
		Description: "Turn commit hashes into commit links",
		Default:     true,
	},
	"omittedCommitPattern": {
		Path:        "omittedCommitPattern",
		Type:        TypeString,
		Description: "Regular expression for subjects to leave out; empty disables it",
		Default:     changelog.DefaultOmitPattern,
	},
	"dateFormat": {
		Path:        "dateFormat",
		Type:        TypeString,
		Description: "Release date format (YYYY, YY, MM, DD, HH, mm, ss)",
		Default:     changelog.DefaultDateFormat,
	},
	"commitDateFormat": {
		Path:        "commitDateFormat",
		Type:        TypeString,
		Description: "Commit date format for {{commitDate}}",
		Default:     changelog.DefaultDateFormat,
	},
	"versionTemplate": {
		Path:        "versionTemplate",
		Type:        TypeString,
		Description: "Version header template; must contain {{version}} to be found again",
		Default:     changelog.DefaultVersionTemplate,
	},
	"scopeTemplate": {
		Path:        "scopeTemplate",
		Type:        TypeString,
		Description: "Scope heading template",
		Default:     changelog.DefaultScopeTemplate,
	},
	"groupTemplate": {
		Path:        "groupTemplate",
		Type:        TypeString,
		Description: "Alias of scopeTemplate",
	},
	"prefixTemplate": {
		Path:        "prefixTemplate",
		Type:        TypeString,
		Description: "Prefix heading template",
		Default:     changelog.DefaultPrefixTemplate,
	},
	"commitTemplate": {
		Path:        "commitTemplate",
		Type:        TypeString,
		Description: "Commit entry template",
		Default:     changelog.DefaultCommitTemplate,
	},
	"groupByScope": {
		Path:        "groupByScope",
		Type:        TypeBool,
		Description: "Force scope headings on or off (unset: automatic)",
	},
	"groupByPrefix": {
		Path:        "groupByPrefix",
		Type:        TypeBool,
		Description: "Show prefix headings",
	},
	"minorPrefixes": {
		Path:        "minorPrefixes",
		Type:        TypeStringList,
		Description: "Prefixes that make --version auto bump the minor version",
		Default:     []string{"feat"},
	},
}

// SortedKeys returns the known key paths in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// envKeys maps a lowercased, underscore-free key to its camelCase path,
// so CHANGELOGEN_LINK_PRS resolves to linkPRs.
var envKeys = func() map[string]string {
	m := make(map[string]string, len(KnownKeys))
	for path := range KnownKeys {
		m[strings.ToLower(path)] = path
	}
	return m
}()

// lookupEnvKey returns the config path for an environment suffix such as
// "LINK_PRS". Unknown names are returned lowercased.
func lookupEnvKey(suffix string) string {
	flat := strings.ToLower(strings.ReplaceAll(suffix, "_", ""))
	if path, ok := envKeys[flat]; ok {
		return path
	}
	return strings.ToLower(suffix)
}
