package changelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariel-frischer/changelogen/internal/release"
)

// DefaultDocument is the starting text of a changelog that does not exist yet.
const DefaultDocument = "# Changelog\nAll notable changes to this project will be documented in this file.\n"

// ErrHistory marks failures of the History collaborator.
var ErrHistory = errors.New("reading history")

// History supplies the repository data a run needs.
type History interface {
	// Tags returns the names of all tags.
	Tags(ctx context.Context) ([]string, error)
	// CommitsSince returns commits reachable from HEAD but not from the
	// tag named from, newest first. An empty from means all of history.
	CommitsSince(ctx context.Context, from string) ([]RawCommit, error)
}

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	// Version is a bump keyword, an explicit version or "unreleased".
	Version string
	// Date is the release date. The zero value means now.
	Date time.Time
	// Document is the current changelog text. Empty means DefaultDocument.
	Document string
	// MinorPrefixes feed bump inference for the "auto" keyword.
	MinorPrefixes []string

	Options Options
}

// Result is the outcome of Generate.
type Result struct {
	// Changelog is the rendered section including its header.
	Changelog string
	// Body is the section without its header.
	Body        string
	Date        string
	Version     string
	PrevVersion string
	// Document is the full changelog with the section inserted.
	Document string
	// Commits are the classified commits that fed the section.
	Commits []Commit
}

// Generate resolves the next version, collects and classifies the commits
// since the previous release, renders the section and inserts it.
func Generate(ctx context.Context, history History, opts GenerateOptions) (*Result, error) {
	if history == nil {
		return nil, errors.New("history is required")
	}

	tags, err := history.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing tags: %w", ErrHistory, err)
	}
	previous, _ := release.LatestTag(tags)

	raws, err := history.CommitsSince(ctx, previous)
	if err != nil {
		return nil, fmt.Errorf("%w: commits since %q: %w", ErrHistory, previous, err)
	}
	commits := ClassifyAll(raws)

	resolved, err := release.Resolve(release.Request{
		Input:         opts.Version,
		Tags:          tags,
		Changes:       changes(commits),
		MinorPrefixes: opts.MinorPrefixes,
	})
	if err != nil {
		return nil, err
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	rendered, err := Render(resolved.Version, date, commits, opts.Options)
	if err != nil {
		return nil, err
	}

	doc := opts.Document
	if doc == "" {
		doc = DefaultDocument
	}
	locator, err := NewLocator(opts.Options.Templates.Version)
	if err != nil {
		return nil, err
	}

	return &Result{
		Changelog:   rendered.Changelog,
		Body:        rendered.Body,
		Date:        rendered.Date,
		Version:     resolved.Version,
		PrevVersion: resolved.Previous,
		Document:    locator.Insert(doc, rendered.Changelog, resolved.Version),
		Commits:     commits,
	}, nil
}

func changes(commits []Commit) []release.Change {
	out := make([]release.Change, len(commits))
	for i, c := range commits {
		out[i] = release.Change{Prefix: c.Prefix, Breaking: c.BreakingChange}
	}
	return out
}
