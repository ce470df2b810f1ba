// Package release resolves the version a changelog section is generated for.
// It understands semver bump keywords, explicit versions and the floating
// "unreleased" pseudo-version, and validates the result against existing tags.
package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Sentinel errors for version resolution.
var (
	// ErrInvalidVersion is returned when the requested version is neither a
	// bump keyword nor a valid semantic version.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrVersionExists is returned when the resolved version is already tagged.
	ErrVersionExists = errors.New("version already exists")
)

// Keyword is a version bump keyword.
type Keyword string

// Bump keywords. Auto infers major, minor or patch from the commits.
const (
	Major      Keyword = "major"
	Minor      Keyword = "minor"
	Patch      Keyword = "patch"
	PreMajor   Keyword = "premajor"
	PreMinor   Keyword = "preminor"
	PrePatch   Keyword = "prepatch"
	PreRelease Keyword = "prerelease"
	Auto       Keyword = "auto"
)

// Unreleased is the pseudo-version for changes not tagged yet.
const Unreleased = "unreleased"

// InitialVersion is used when a keyword is requested and no tag exists.
const InitialVersion = "v0.1.0"

// DefaultMinorPrefixes lists commit prefixes that imply a minor bump.
var DefaultMinorPrefixes = []string{"feat"}

var keywords = map[Keyword]bool{
	Major: true, Minor: true, Patch: true,
	PreMajor: true, PreMinor: true, PrePatch: true, PreRelease: true,
	Auto: true,
}

// IsKeyword reports whether s is a bump keyword.
func IsKeyword(s string) bool {
	return keywords[Keyword(strings.ToLower(s))]
}

// IsUnreleased reports whether s names the unreleased pseudo-version.
func IsUnreleased(s string) bool {
	return strings.EqualFold(s, Unreleased)
}

// IsValid reports whether s is a full semantic version, with or without a
// leading "v".
func IsValid(s string) bool {
	_, err := parse(s)
	return err == nil
}

// Change is the part of a commit that matters for bump inference.
type Change struct {
	Prefix   string
	Breaking bool
}

// InferBump picks the bump implied by changes. Any breaking change means
// major; otherwise a change whose prefix is in minorPrefixes means minor;
// otherwise patch. A nil minorPrefixes uses DefaultMinorPrefixes.
func InferBump(changes []Change, minorPrefixes []string) Keyword {
	if minorPrefixes == nil {
		minorPrefixes = DefaultMinorPrefixes
	}
	minor := make(map[string]bool, len(minorPrefixes))
	for _, p := range minorPrefixes {
		minor[p] = true
	}

	bump := Patch
	for _, c := range changes {
		if c.Breaking {
			return Major
		}
		if c.Prefix != "" && minor[c.Prefix] {
			bump = Minor
		}
	}
	return bump
}

// LatestTag returns the highest semantic version among tags. Tags that are
// not versions are ignored.
func LatestTag(tags []string) (string, bool) {
	latest := ""
	var latestV *semver.Version
	for _, tag := range tags {
		v, err := parse(tag)
		if err != nil {
			continue
		}
		if latestV == nil || v.GreaterThan(latestV) {
			latest, latestV = tag, v
		}
	}
	return latest, latest != ""
}

// Bump applies keyword to current and keeps its "v" prefix. Auto is not
// accepted here; infer it first with InferBump. Bumping a pre-release to
// the release it leads up to drops the pre-release instead of incrementing.
func Bump(current string, keyword Keyword) (string, error) {
	v, err := parse(current)
	if err != nil {
		return "", err
	}
	pre := v.Prerelease()

	var next semver.Version
	switch Keyword(strings.ToLower(string(keyword))) {
	case Major:
		next = v.IncMajor()
		if pre != "" && v.Minor() == 0 && v.Patch() == 0 {
			next = *semver.New(v.Major(), 0, 0, "", "")
		}
	case Minor:
		next = v.IncMinor()
		if pre != "" && v.Patch() == 0 {
			next = *semver.New(v.Major(), v.Minor(), 0, "", "")
		}
	case Patch:
		next = v.IncPatch()
	case PreMajor:
		next, err = v.IncMajor().SetPrerelease(firstPre)
	case PreMinor:
		next, err = v.IncMinor().SetPrerelease(firstPre)
	case PrePatch:
		next = *semver.New(v.Major(), v.Minor(), v.Patch()+1, firstPre, "")
	case PreRelease:
		if pre == "" {
			next = *semver.New(v.Major(), v.Minor(), v.Patch()+1, firstPre, "")
			break
		}
		next, err = semver.New(v.Major(), v.Minor(), v.Patch(), "", "").SetPrerelease(bumpPre(pre))
	default:
		return "", fmt.Errorf("%w: unknown bump keyword %q", ErrInvalidVersion, keyword)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidVersion, err)
	}

	out := next.String()
	if hasV(current) {
		out = "v" + out
	}
	return out, nil
}

// firstPre is the pre-release a pre* bump starts from.
const firstPre = "0"

// bumpPre increments the last numeric identifier of pre, or appends ".0".
func bumpPre(pre string) string {
	ids := strings.Split(pre, ".")
	for i := len(ids) - 1; i >= 0; i-- {
		if n, err := strconv.Atoi(ids[i]); err == nil {
			ids[i] = strconv.Itoa(n + 1)
			return strings.Join(ids, ".")
		}
	}
	return pre + "." + firstPre
}

// Request describes the version a run asks for.
type Request struct {
	// Input is a bump keyword, an explicit version or "unreleased".
	// Empty means Minor.
	Input string
	// Tags are the existing tags of the repository.
	Tags []string
	// Changes feed InferBump when Input is Auto.
	Changes       []Change
	MinorPrefixes []string
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Version  string
	Previous string
}

// Resolve turns a request into the next version. With a previous tag,
// keywords bump it and explicit versions inherit its "v" prefix. Without
// one, keywords yield InitialVersion and explicit versions are used as-is.
func Resolve(req Request) (Resolution, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		input = string(Minor)
	}

	latest, hasLatest := LatestTag(req.Tags)
	res := Resolution{Previous: latest}

	switch {
	case IsUnreleased(input):
		res.Version = Unreleased
		return res, nil
	case IsKeyword(input):
		keyword := Keyword(strings.ToLower(input))
		if keyword == Auto {
			keyword = InferBump(req.Changes, req.MinorPrefixes)
		}
		if !hasLatest {
			res.Version = InitialVersion
			break
		}
		next, err := Bump(latest, keyword)
		if err != nil {
			return Resolution{}, err
		}
		res.Version = next
	case IsValid(input):
		res.Version = input
		if hasLatest && hasV(latest) && !hasV(input) {
			res.Version = "v" + input
		}
	default:
		return Resolution{}, fmt.Errorf("%w: %q is neither a bump keyword nor a semantic version", ErrInvalidVersion, input)
	}

	want, err := parse(res.Version)
	if err != nil {
		return Resolution{}, err
	}
	for _, tag := range req.Tags {
		v, err := parse(tag)
		if err != nil {
			continue
		}
		if v.Equal(want) && v.Metadata() == want.Metadata() {
			return Resolution{}, fmt.Errorf("%w: %s", ErrVersionExists, tag)
		}
	}
	return res, nil
}

func hasV(s string) bool {
	return strings.HasPrefix(s, "v") || strings.HasPrefix(s, "V")
}

// parse accepts MAJOR.MINOR.PATCH with optional pre-release and build parts
// and an optional "v". Shorthands such as "v1.2" are rejected.
func parse(s string) (*semver.Version, error) {
	bare := strings.TrimSpace(s)
	if hasV(bare) {
		bare = bare[1:]
	}
	v, err := semver.StrictNewVersion(bare)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, s, err)
	}
	return v, nil
}
