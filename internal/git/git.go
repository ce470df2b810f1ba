// Package git reads the repository history changelogen needs: tags, the
// commits since the previous release and the origin remote. It uses the
// go-git library so no git CLI is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/changelogen/internal/changelog"
)

// ErrNoCommits is returned when HEAD does not point to a commit yet.
var ErrNoCommits = errors.New("there are no commits in this repository")

// skippedPrefixes mark commits that never appear in a changelog.
var skippedPrefixes = []string{
	"Revert ",
	"Merge branch ",
	"Merge commit ",
	"Merge pull request ",
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// History reads tags and commits from one repository.
type History struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, searching parent directories
// for the .git directory. An empty path means the working directory.
func Open(path string) (*History, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	h := NewHistory(repo)
	if wt, err := repo.Worktree(); err == nil {
		h.root = wt.Filesystem.Root()
	}

	logDebug("[git] repository opened successfully (root %s)", h.root)
	return h, nil
}

// NewHistory wraps an already opened repository.
func NewHistory(repo *git.Repository) *History {
	return &History{repo: repo}
}

// Root returns the worktree root, or "" for bare and in-memory repositories.
func (h *History) Root() string {
	return h.root
}

// Tags returns all tag names sorted lexicographically.
func (h *History) Tags(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter, err := h.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.Strings(tags)
	logDebug("[git] Tags: found %d tags", len(tags))
	return tags, nil
}

// CommitsSince returns the commits reachable from HEAD but not from the tag
// named from, newest first. Revert and merge commits are skipped. An empty
// from returns all commits reachable from HEAD.
func (h *History) CommitsSince(ctx context.Context, from string) ([]changelog.RawCommit, error) {
	head, err := h.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNoCommits
		}
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	exclude := make(map[plumbing.Hash]bool)
	if from != "" {
		base, err := h.tagCommit(from)
		if err != nil {
			return nil, err
		}
		if err := h.walk(ctx, base, func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		}); err != nil {
			return nil, fmt.Errorf("walking history of %s: %w", from, err)
		}
		logDebug("[git] CommitsSince: %d commits already released in %s", len(exclude), from)
	}

	var commits []changelog.RawCommit
	err = h.walk(ctx, head.Hash(), func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		if IsSkipped(c.Message) {
			logDebug("[git] CommitsSince: skipping %s", c.Hash.String()[:7])
			return nil
		}
		commits = append(commits, changelog.RawCommit{
			Hash:    c.Hash.String(),
			Date:    c.Author.When,
			Message: c.Message,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history from HEAD: %w", err)
	}

	logDebug("[git] CommitsSince(%q): %d commits", from, len(commits))
	return commits, nil
}

// walk visits commits reachable from start, newest committer time first.
func (h *History) walk(ctx context.Context, start plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := h.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
}

// tagCommit resolves a lightweight or annotated tag to its commit.
func (h *History) tagCommit(name string) (plumbing.Hash, error) {
	ref, err := h.repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving tag %s: %w", name, err)
	}

	if tag, err := h.repo.TagObject(ref.Hash()); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolving annotated tag %s: %w", name, err)
		}
		return commit.Hash, nil
	}
	return ref.Hash(), nil
}

// CreateTag creates a lightweight tag named name on HEAD.
func (h *History) CreateTag(name string) error {
	head, err := h.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD reference: %w", err)
	}
	if _, err := h.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	logDebug("[git] CreateTag: %s -> %s", name, head.Hash())
	return nil
}

// RemoteRepo returns "owner/name" for the origin remote when it points to
// GitHub.
func (h *History) RemoteRepo() (string, bool) {
	remote, err := h.repo.Remote("origin")
	if err != nil {
		logDebug("[git] RemoteRepo: no origin remote: %v", err)
		return "", false
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", false
	}
	repo, ok := ParseGitHubRemote(urls[0])
	logDebug("[git] RemoteRepo: %s -> %q", urls[0], repo)
	return repo, ok
}

// ParseGitHubRemote extracts "owner/name" from a GitHub remote URL in SCP,
// ssh or https form.
func ParseGitHubRemote(url string) (string, bool) {
	url = strings.TrimSpace(url)

	var path string
	switch {
	case isSSHURL(url) && strings.HasPrefix(url, "git@"):
		host, rest, ok := strings.Cut(strings.TrimPrefix(url, "git@"), ":")
		if !ok || host != "github.com" {
			return "", false
		}
		path = rest
	default:
		for _, prefix := range []string{"https://", "http://", "ssh://", "git+ssh://", "git://"} {
			url = strings.TrimPrefix(url, prefix)
		}
		if at := strings.Index(url, "@"); at >= 0 {
			url = url[at+1:]
		}
		rest, ok := strings.CutPrefix(url, "github.com/")
		if !ok {
			return "", false
		}
		path = rest
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return owner + "/" + name, true
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// IsSkipped reports whether a commit message is a revert or merge commit.
func IsSkipped(message string) bool {
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(message, prefix) {
			return true
		}
	}
	return false
}

// TagDate returns the author date of the commit a tag points to.
func (h *History) TagDate(name string) (time.Time, error) {
	hash, err := h.tagCommit(name)
	if err != nil {
		return time.Time{}, err
	}
	c, err := h.repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading commit for tag %s: %w", name, err)
	}
	return c.Author.When, nil
}
