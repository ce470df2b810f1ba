// Package testutil provides test helpers for changelogen tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Epoch is the time of the first fixture commit minus one step.
var Epoch = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

// GitRepo is a temporary on-disk repository. Each commit is one hour
// after the previous one, starting at Epoch plus one hour.
type GitRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	n    int
	when time.Time
}

// NewGitRepo initializes an empty repository in a temp directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &GitRepo{t: t, Dir: dir, Repo: repo, when: Epoch}
}

// Now returns the time of the latest commit.
func (r *GitRepo) Now() time.Time {
	return r.when
}

// Commit adds a new file and commits it with message.
func (r *GitRepo) Commit(message string) plumbing.Hash {
	r.t.Helper()
	r.n++
	r.when = r.when.Add(time.Hour)

	name := "file" + strconv.Itoa(r.n) + ".txt"
	require.NoError(r.t, os.WriteFile(filepath.Join(r.Dir, name), []byte(message), 0o644))

	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)
	_, err = wt.Add(name)
	require.NoError(r.t, err)

	sig := r.signature()
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
	return hash
}

// Tag creates a lightweight tag.
func (r *GitRepo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

// AnnotatedTag creates an annotated tag.
func (r *GitRepo) AnnotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, hash, &git.CreateTagOptions{
		Message: "release " + name,
		Tagger:  r.signature(),
	})
	require.NoError(r.t, err)
}

// AddRemote registers a remote named name.
func (r *GitRepo) AddRemote(name, url string) {
	r.t.Helper()
	_, err := r.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(r.t, err)
}

// WriteFile writes an untracked file relative to the worktree root.
func (r *GitRepo) WriteFile(rel, content string) {
	r.t.Helper()
	path := filepath.Join(r.Dir, rel)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
}

// ReadFile reads a file relative to the worktree root.
func (r *GitRepo) ReadFile(rel string) string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.Dir, rel))
	require.NoError(r.t, err)
	return string(data)
}

func (r *GitRepo) signature() *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@test.com", When: r.when}
}
