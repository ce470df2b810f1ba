package changelog

import (
	"strings"
	"time"
)

// Unreleased is the pseudo-version for changes that are not tagged yet.
const Unreleased = "unreleased"

// RawCommit is a commit as delivered by the history collaborator.
type RawCommit struct {
	Hash    string
	Date    time.Time
	Message string // full message, subject line first
}

// Commit is one classified unit of history.
type Commit struct {
	Subject        string
	Body           string
	Hash           string
	Date           time.Time
	Prefix         string
	Scope          string
	BreakingChange bool
	PR             string

	// Index is the position in discovery order, used to break date ties.
	Index int
}

// RuleKind tags the variant of a Rule.
type RuleKind int

const (
	// RuleTitled carries a title and, at scope level, an optional repository.
	RuleTitled RuleKind = iota
	// RuleTitledOnly carries a title only (prefix level objects).
	RuleTitledOnly
	// RuleSuppressed drops every commit under the key.
	RuleSuppressed
)

// Rule maps a scope or prefix key to its display settings.
type Rule struct {
	Kind  RuleKind
	Title string
	Repo  string
}

// Titled returns a rule with a display title.
func Titled(title string) Rule {
	return Rule{Kind: RuleTitled, Title: title}
}

// TitledWithRepo returns a scope rule whose links point to repo.
func TitledWithRepo(title, repo string) Rule {
	return Rule{Kind: RuleTitled, Title: title, Repo: repo}
}

// TitledOnly returns a prefix rule decoded from an object value.
func TitledOnly(title string) Rule {
	return Rule{Kind: RuleTitledOnly, Title: title}
}

// Suppressed returns a rule that hides its key.
func Suppressed() Rule {
	return Rule{Kind: RuleSuppressed}
}

// IsSuppressed reports whether the rule hides its commits.
func (r Rule) IsSuppressed() bool {
	return r.Kind == RuleSuppressed
}

// RuleEntry is one key/rule pair in declaration order.
type RuleEntry struct {
	Key  string
	Rule Rule
}

// Rules is an ordered rule mapping. Declaration order is significant.
type Rules []RuleEntry

// Get returns the rule for key.
func (rs Rules) Get(key string) (Rule, bool) {
	for _, e := range rs {
		if e.Key == key {
			return e.Rule, true
		}
	}
	return Rule{}, false
}

// Keys returns the configured keys in declaration order.
func (rs Rules) Keys() []string {
	keys := make([]string, len(rs))
	for i, e := range rs {
		keys[i] = e.Key
	}
	return keys
}

// Set adds or replaces the rule for key. A replaced key keeps its position.
func (rs Rules) Set(key string, rule Rule) Rules {
	for i, e := range rs {
		if e.Key == key {
			rs[i].Rule = rule
			return rs
		}
	}
	return append(rs, RuleEntry{Key: key, Rule: rule})
}

// Templates holds the four template strings used to render a section.
type Templates struct {
	Version string
	Scope   string
	Prefix  string
	Commit  string
}

// Default templates.
const (
	DefaultVersionTemplate = "{{#unreleased}}## Unreleased{{/unreleased}}{{^unreleased}}## {{version}} - {{date}}{{/unreleased}}"
	DefaultScopeTemplate   = "{{heading}} {{title}}"
	DefaultPrefixTemplate  = "{{heading}} {{title}}"
	DefaultCommitTemplate  = "- {{subject}}{{#shortHash}} `{{shortHash}}`{{/shortHash}}"
)

// DefaultOmitPattern drops release commits whose subject is a bare version.
const DefaultOmitPattern = `^v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`

// DefaultDateFormat is used for both the version date and commit dates.
const DefaultDateFormat = "YYYY-MM-DD"

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	return Templates{
		Version: DefaultVersionTemplate,
		Scope:   DefaultScopeTemplate,
		Prefix:  DefaultPrefixTemplate,
		Commit:  DefaultCommitTemplate,
	}
}

// withDefaults fills empty template strings with the built-in ones.
func (t Templates) withDefaults() Templates {
	d := DefaultTemplates()
	if t.Version == "" {
		t.Version = d.Version
	}
	if t.Scope == "" {
		t.Scope = d.Scope
	}
	if t.Prefix == "" {
		t.Prefix = d.Prefix
	}
	if t.Commit == "" {
		t.Commit = d.Commit
	}
	return t
}

// Options controls grouping and rendering. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// Repo is "owner/name" or a URL. Empty disables links.
	Repo string

	Prefixes Rules
	Scopes   Rules

	CapitalizeFirstLetter bool
	DedupSameMessages     bool
	LinkPRs               bool
	LinkHashes            bool

	// OmitPattern drops commits whose subject matches. Empty disables it.
	OmitPattern string

	DateFormat       string
	CommitDateFormat string

	// GroupByScope forces scope headings on or off. nil means automatic.
	GroupByScope *bool
	// GroupByPrefix toggles prefix headings. nil means on.
	GroupByPrefix *bool

	Templates Templates
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		CapitalizeFirstLetter: true,
		DedupSameMessages:     true,
		LinkPRs:               true,
		LinkHashes:            true,
		OmitPattern:           DefaultOmitPattern,
		DateFormat:            DefaultDateFormat,
		CommitDateFormat:      DefaultDateFormat,
		Templates:             DefaultTemplates(),
	}
}

// IsUnreleased reports whether version names the unreleased pseudo-version.
func IsUnreleased(version string) bool {
	return strings.EqualFold(version, Unreleased)
}

// NormalizeVersion removes a leading "v" so "v1.0.0" and "1.0.0" compare equal.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(version), "v"), "V")
}
