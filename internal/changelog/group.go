package changelog

import (
	"fmt"
	"regexp"
	"sort"
)

// ScopeSection is a scope-level node of the render tree.
type ScopeSection struct {
	Key   string
	Title string
	// Repo overrides the global repository for links in this scope.
	Repo string
	// Heading is false when scope headings are not shown.
	Heading  bool
	Prefixes []PrefixSection
}

// PrefixSection is a prefix-level node holding the rendered commits.
type PrefixSection struct {
	Key     string
	Title   string
	Heading bool
	Commits []Commit
}

// Count returns the number of commits under the scope.
func (s ScopeSection) Count() int {
	n := 0
	for _, p := range s.Prefixes {
		n += len(p.Commits)
	}
	return n
}

// Group partitions commits into the scope -> prefix -> commit tree.
// Sections that end up without commits are left out.
func Group(commits []Commit, opts Options) ([]ScopeSection, error) {
	kept, err := omitCommits(commits, opts.OmitPattern)
	if err != nil {
		return nil, err
	}

	scopes := mergeBuckets(partition(kept, func(c Commit) string { return c.Scope }), DetectMerge(opts.Scopes))
	showScopes := scopeHeadingsVisible(scopes, opts)

	var sections []ScopeSection
	for _, key := range orderKeys(opts.Scopes, scopes.keys()) {
		rule, configured := opts.Scopes.Get(key)
		if configured && rule.IsSuppressed() {
			continue
		}
		scoped := scopes.get(key)
		if len(scoped) == 0 {
			continue
		}

		prefixes := groupPrefixes(scoped, opts)
		if len(prefixes) == 0 {
			continue
		}

		section := ScopeSection{
			Key:      key,
			Title:    key,
			Heading:  showScopes,
			Prefixes: prefixes,
		}
		if configured {
			if rule.Title != "" {
				section.Title = rule.Title
			}
			section.Repo = rule.Repo
		}
		sections = append(sections, section)
	}

	return sections, nil
}

// omitCommits drops commits whose subject matches pattern.
func omitCommits(commits []Commit, pattern string) ([]Commit, error) {
	if pattern == "" {
		return commits, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling omitted commit pattern %q: %w", pattern, err)
	}

	kept := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if !re.MatchString(c.Subject) {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// scopeHeadingsVisible decides whether scope headings are rendered.
// Without an explicit toggle they are shown when any commit is scoped or
// when scopes were configured at all.
func scopeHeadingsVisible(scopes *buckets, opts Options) bool {
	if opts.GroupByScope != nil {
		return *opts.GroupByScope
	}
	keys := scopes.keys()
	return len(keys) > 1 || (len(keys) == 1 && keys[0] != "") || len(opts.Scopes) > 0
}

// groupPrefixes builds the prefix sections of one scope.
func groupPrefixes(commits []Commit, opts Options) []PrefixSection {
	visible := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if rule, ok := opts.Prefixes.Get(c.Prefix); ok && rule.IsSuppressed() {
			continue
		}
		visible = append(visible, c)
	}

	if opts.GroupByPrefix != nil && !*opts.GroupByPrefix {
		leaf := leafCommits(visible, opts.DedupSameMessages)
		if len(leaf) == 0 {
			return nil
		}
		return []PrefixSection{{Commits: leaf}}
	}

	prefixes := mergeBuckets(partition(visible, func(c Commit) string { return c.Prefix }), DetectMerge(opts.Prefixes))

	var sections []PrefixSection
	for _, key := range orderKeys(opts.Prefixes, prefixes.keys()) {
		rule, configured := opts.Prefixes.Get(key)
		if configured && rule.IsSuppressed() {
			continue
		}
		leaf := leafCommits(prefixes.get(key), opts.DedupSameMessages)
		if len(leaf) == 0 {
			continue
		}

		title := key
		if configured && rule.Title != "" {
			title = rule.Title
		}
		sections = append(sections, PrefixSection{
			Key:     key,
			Title:   title,
			Heading: title != "",
			Commits: leaf,
		})
	}
	return sections
}

// orderKeys returns configured keys in declaration order, then keys only
// observed in the data sorted lexicographically, then the empty key.
func orderKeys(rules Rules, observed []string) []string {
	seen := make(map[string]bool, len(rules)+len(observed))
	var keys []string
	for _, key := range rules.Keys() {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	var unknown []string
	hasEmpty := false
	for _, key := range observed {
		if key == "" {
			hasEmpty = true
			continue
		}
		if !seen[key] {
			seen[key] = true
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	keys = append(keys, unknown...)

	if hasEmpty {
		keys = append(keys, "")
	}
	return keys
}

// leafCommits removes duplicate subjects (keeping the first discovered) and
// orders the rest newest first, breaking ties by discovery order.
func leafCommits(commits []Commit, dedup bool) []Commit {
	if len(commits) == 0 {
		return nil
	}

	out := make([]Commit, len(commits))
	copy(out, commits)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	if dedup {
		seen := make(map[string]bool, len(out))
		unique := out[:0]
		for _, c := range out {
			if seen[c.Subject] {
				continue
			}
			seen[c.Subject] = true
			unique = append(unique, c)
		}
		out = unique
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Index < out[j].Index
	})
	return out
}
