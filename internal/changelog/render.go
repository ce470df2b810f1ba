package changelog

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ariel-frischer/changelogen/internal/mustache"
	"golang.org/x/mod/semver"
)

// baseHeadingLevel is the depth of the first heading below the version header.
const baseHeadingLevel = 3

// Rendered is the output of Render.
type Rendered struct {
	// Changelog is the full section including the version header.
	Changelog string
	// Header is the rendered version header.
	Header string
	// Body is the section without its header.
	Body string
	// Date is the formatted release date.
	Date string
}

// compiledTemplates holds parsed templates for one run.
type compiledTemplates struct {
	version *mustache.Template
	scope   *mustache.Template
	prefix  *mustache.Template
	commit  *mustache.Template
}

func compileTemplates(t Templates) (*compiledTemplates, error) {
	t = t.withDefaults()

	var ct compiledTemplates
	var err error
	if ct.version, err = mustache.Parse(t.Version); err != nil {
		return nil, fmt.Errorf("parsing version template: %w", err)
	}
	if ct.scope, err = mustache.Parse(t.Scope); err != nil {
		return nil, fmt.Errorf("parsing scope template: %w", err)
	}
	if ct.prefix, err = mustache.Parse(t.Prefix); err != nil {
		return nil, fmt.Errorf("parsing prefix template: %w", err)
	}
	if ct.commit, err = mustache.Parse(t.Commit); err != nil {
		return nil, fmt.Errorf("parsing commit template: %w", err)
	}
	return &ct, nil
}

// Render groups commits and renders the section for version released on date.
func Render(version string, date time.Time, commits []Commit, opts Options) (Rendered, error) {
	tmpls, err := compileTemplates(opts.Templates)
	if err != nil {
		return Rendered{}, err
	}

	sections, err := Group(commits, opts)
	if err != nil {
		return Rendered{}, err
	}

	formattedDate := FormatDate(date, opts.DateFormat)
	vctx := versionContext(version, formattedDate, RepoURL(opts.Repo))
	header := tmpls.version.Render(vctx)

	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		blocks = append(blocks, renderScope(s, vctx, tmpls, opts))
	}
	body := strings.Join(blocks, "\n\n")

	full := header
	if body != "" {
		full += "\n\n" + body
	}

	return Rendered{
		Changelog: full,
		Header:    header,
		Body:      body,
		Date:      formattedDate,
	}, nil
}

// versionContext builds the template context shared by every level.
func versionContext(version, date, repoURL string) mustache.Context {
	bare := NormalizeVersion(version)
	prefixed := "v" + bare
	if IsUnreleased(version) {
		prefixed = version
	}
	return mustache.Context{
		"version":         version,
		"bareVersion":     bare,
		"prefixedVersion": prefixed,
		"unreleased":      IsUnreleased(version),
		"prerelease":      IsPrerelease(version),
		"date":            date,
		"repo":            repoURL,
	}
}

// IsPrerelease reports whether version carries a semver pre-release suffix.
func IsPrerelease(version string) bool {
	v := "v" + NormalizeVersion(version)
	return semver.IsValid(v) && semver.Prerelease(v) != ""
}

func renderScope(s ScopeSection, vctx mustache.Context, tmpls *compiledTemplates, opts Options) string {
	ctx := cloneContext(vctx)
	if s.Repo != "" {
		ctx["repo"] = RepoURL(s.Repo)
	}
	baseURL, _ := ctx["repo"].(string)

	level := baseHeadingLevel
	var parts []string
	if s.Heading {
		ctx["scope"] = s.Key
		ctx["title"] = s.Title
		ctx["level"] = level
		ctx["heading"] = strings.Repeat("#", level)
		parts = append(parts, tmpls.scope.Render(ctx))
		level++
	}

	prefixBlocks := make([]string, 0, len(s.Prefixes))
	for _, p := range s.Prefixes {
		prefixBlocks = append(prefixBlocks, renderPrefix(p, ctx, level, baseURL, tmpls, opts))
	}
	parts = append(parts, strings.Join(prefixBlocks, "\n\n"))

	return strings.Join(parts, "\n\n")
}

func renderPrefix(p PrefixSection, scopeCtx mustache.Context, level int, baseURL string, tmpls *compiledTemplates, opts Options) string {
	ctx := cloneContext(scopeCtx)
	ctx["prefix"] = p.Key
	ctx["title"] = p.Title
	ctx["level"] = level
	ctx["heading"] = strings.Repeat("#", level)

	lines := make([]string, 0, len(p.Commits))
	for _, c := range p.Commits {
		lines = append(lines, renderCommit(c, ctx, baseURL, tmpls, opts))
	}
	entries := strings.Join(lines, "\n")

	if !p.Heading {
		return entries
	}
	return tmpls.prefix.Render(ctx) + "\n\n" + entries
}

func renderCommit(c Commit, prefixCtx mustache.Context, baseURL string, tmpls *compiledTemplates, opts Options) string {
	subject := c.Subject
	if opts.CapitalizeFirstLetter {
		subject = capitalizeFirst(subject)
	}

	ctx := cloneContext(prefixCtx)
	ctx["subject"] = subject
	ctx["body"] = c.Body
	ctx["hash"] = c.Hash
	ctx["shortHash"] = ShortHash(c.Hash)
	ctx["commitDate"] = ""
	if !c.Date.IsZero() {
		ctx["commitDate"] = FormatDate(c.Date, opts.CommitDateFormat)
	}
	ctx["breakingChange"] = c.BreakingChange
	ctx["pr"] = c.PR
	ctx["commitPrefix"] = c.Prefix
	ctx["commitScope"] = c.Scope

	return postProcess(tmpls.commit.Render(ctx), c, baseURL, opts)
}

func cloneContext(ctx mustache.Context) mustache.Context {
	out := make(mustache.Context, len(ctx)+8)
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

// capitalizeFirst upper-cases the first rune of s.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
