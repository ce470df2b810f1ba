package changelog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ariel-frischer/changelogen/internal/mustache"
)

// Placeholders substituted into the version template to derive the header
// pattern. They contain only word characters so QuoteMeta leaves them intact.
const (
	versionSentinel = "XCHANGELOGENVERSIONX"
	dateSentinel    = "XCHANGELOGENDATEX"
)

// lineEnd closes a header pattern. Trailing blanks and the "\r" of CRLF
// documents belong to the header line.
const lineEnd = `[ \t\r]*$`

// Location is the byte span of one version section in a document.
// End is len(doc) when the section runs to the end of the document.
type Location struct {
	Start int
	End   int
}

// Locator finds version sections in a changelog document using the header
// shape produced by a version template.
type Locator struct {
	// header matches a released version header and captures the version.
	// nil when the template does not expose the version.
	header *regexp.Regexp
	// unreleased matches the header rendered for the unreleased section.
	unreleased *regexp.Regexp
}

// NewLocator derives header patterns from versionTemplate. An empty template
// uses DefaultVersionTemplate.
func NewLocator(versionTemplate string) (*Locator, error) {
	if versionTemplate == "" {
		versionTemplate = DefaultVersionTemplate
	}
	tmpl, err := mustache.Parse(versionTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing version template: %w", err)
	}

	l := &Locator{}

	rendered := tmpl.Render(sentinelContext(versionSentinel, false))
	if !strings.Contains(rendered, versionSentinel) {
		return l, nil
	}

	pattern := regexp.QuoteMeta(rendered)
	pattern = strings.Replace(pattern, versionSentinel, "(.+)", 1)
	pattern = strings.ReplaceAll(pattern, versionSentinel, ".+")
	pattern = strings.ReplaceAll(pattern, dateSentinel, ".+")
	if l.header, err = regexp.Compile("(?m)^" + pattern + lineEnd); err != nil {
		return nil, fmt.Errorf("compiling header pattern: %w", err)
	}

	unreleased := tmpl.Render(sentinelContext(Unreleased, true))
	if strings.TrimSpace(unreleased) == "" {
		return l, nil
	}
	unreleased = strings.ReplaceAll(regexp.QuoteMeta(unreleased), dateSentinel, ".+")
	if l.unreleased, err = regexp.Compile("(?m)^" + unreleased + lineEnd); err != nil {
		return nil, fmt.Errorf("compiling unreleased header pattern: %w", err)
	}

	return l, nil
}

// sentinelContext mirrors versionContext with placeholders in place of the
// version and the date.
func sentinelContext(version string, unreleased bool) mustache.Context {
	prefixed := "v" + version
	if unreleased {
		prefixed = version
	}
	return mustache.Context{
		"version":         version,
		"bareVersion":     version,
		"prefixedVersion": prefixed,
		"unreleased":      unreleased,
		"prerelease":      false,
		"date":            dateSentinel,
		"repo":            "",
	}
}

// headerMatch is one header line found in a document.
type headerMatch struct {
	start   int
	version string
}

// headers returns every header in doc in document order.
func (l *Locator) headers(doc string) []headerMatch {
	if l.header == nil {
		return nil
	}

	byStart := make(map[int]headerMatch)
	if l.unreleased != nil {
		for _, m := range l.unreleased.FindAllStringIndex(doc, -1) {
			byStart[m[0]] = headerMatch{start: m[0], version: Unreleased}
		}
	}
	for _, m := range l.header.FindAllStringSubmatchIndex(doc, -1) {
		if _, ok := byStart[m[0]]; ok {
			continue
		}
		byStart[m[0]] = headerMatch{start: m[0], version: strings.TrimSpace(doc[m[2]:m[3]])}
	}

	out := make([]headerMatch, 0, len(byStart))
	for _, h := range byStart {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// Locate returns the span of the section for version. An empty version
// selects the first section in the document.
func (l *Locator) Locate(doc, version string) (Location, bool) {
	headers := l.headers(doc)

	idx := -1
	for i, h := range headers {
		if matchesVersion(h.version, version) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Location{}, false
	}

	loc := Location{Start: headers[idx].start, End: len(doc)}
	if idx+1 < len(headers) {
		loc.End = headers[idx+1].start
	}
	return loc, true
}

func matchesVersion(found, want string) bool {
	switch {
	case want == "":
		return true
	case IsUnreleased(want):
		return IsUnreleased(found)
	case IsUnreleased(found):
		return false
	default:
		return NormalizeVersion(found) == NormalizeVersion(want)
	}
}

// Insert places content into doc as the section for version.
//
// Releasing a real version drops any unreleased section first. An existing
// section for version is replaced in place; otherwise content goes before
// the newest section, or is appended when the document has none.
func (l *Locator) Insert(doc, content, version string) string {
	if version != "" && !IsUnreleased(version) {
		if loc, ok := l.Locate(doc, Unreleased); ok {
			doc = splice(doc, loc, "")
		}
	}

	if version != "" {
		if loc, ok := l.Locate(doc, version); ok {
			return splice(doc, loc, content)
		}
	}
	if loc, ok := l.Locate(doc, ""); ok {
		return splice(doc, Location{Start: loc.Start, End: loc.Start}, content)
	}
	return splice(doc, Location{Start: len(doc), End: len(doc)}, content)
}

// splice replaces doc[loc.Start:loc.End] with content. Each part is trimmed
// and non-empty parts are separated by one blank line.
func splice(doc string, loc Location, content string) string {
	parts := []string{
		strings.TrimSpace(doc[:loc.Start]),
		strings.TrimSpace(content),
		strings.TrimSpace(doc[loc.End:]),
	}

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// InsertSection is a convenience wrapper building a Locator for
// versionTemplate and inserting content for version.
func InsertSection(doc, content, version, versionTemplate string) (string, error) {
	l, err := NewLocator(versionTemplate)
	if err != nil {
		return "", err
	}
	return l.Insert(doc, content, version), nil
}
