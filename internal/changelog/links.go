package changelog

import (
	"regexp"
	"strings"
)

// ShortHashLength is the number of hash characters shown in entries.
const ShortHashLength = 6

var (
	markdownLink    = `\[[^\]]*\]\([^)]*\)`
	prRefPattern    = regexp.MustCompile(markdownLink + `|\B#(\d+)\b`)
	codeLinkPattern = regexp.MustCompile("`\\[([^\\]`]*)\\]\\(([^)`]*)\\)`")
)

// RepoURL turns a repository reference into a base URL. "owner/name" maps to
// GitHub; URLs lose their trailing slash. Empty input returns "".
func RepoURL(repo string) string {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return ""
	}
	if strings.HasPrefix(repo, "http://") || strings.HasPrefix(repo, "https://") {
		return strings.TrimRight(repo, "/")
	}
	return "https://github.com/" + strings.Trim(repo, "/")
}

// ShortHash returns the abbreviated form of hash.
func ShortHash(hash string) string {
	if len(hash) <= ShortHashLength {
		return hash
	}
	return hash[:ShortHashLength]
}

// LinkPullRequests turns "#123" references outside existing markdown links
// into links to the pull request. Empty baseURL leaves text unchanged.
func LinkPullRequests(text, baseURL string) string {
	if baseURL == "" {
		return text
	}
	return prRefPattern.ReplaceAllStringFunc(text, func(match string) string {
		if strings.HasPrefix(match, "[") {
			return match
		}
		number := strings.TrimPrefix(match, "#")
		return "[#" + number + "](" + baseURL + "/pull/" + number + ")"
	})
}

// LinkHash turns the full or short form of hash, where it appears outside
// existing markdown links, into a link to the commit.
func LinkHash(text, hash, baseURL string) string {
	if baseURL == "" || hash == "" {
		return text
	}
	short := ShortHash(hash)
	alternatives := regexp.QuoteMeta(hash)
	if short != hash {
		alternatives += "|" + regexp.QuoteMeta(short)
	}
	re := regexp.MustCompile(markdownLink + `|\b(?:` + alternatives + `)\b`)

	return re.ReplaceAllStringFunc(text, func(match string) string {
		if strings.HasPrefix(match, "[") {
			return match
		}
		return "[" + match + "](" + baseURL + "/commit/" + hash + ")"
	})
}

// FixCodeLinks rewrites `[text](url)` into [`text`](url). Markdown renderers
// show a link inside a code span literally.
func FixCodeLinks(text string) string {
	return codeLinkPattern.ReplaceAllString(text, "[`$1`]($2)")
}

// postProcess applies the link transformations to one rendered entry.
func postProcess(text string, c Commit, baseURL string, opts Options) string {
	if opts.LinkPRs {
		text = LinkPullRequests(text, baseURL)
	}
	if opts.LinkHashes {
		text = LinkHash(text, c.Hash, baseURL)
	}
	return FixCodeLinks(text)
}
