// Package changelog generates markdown changelog sections from commit history.
//
// This package implements:
//   - Conventional commit classification (type, scope, breaking flag, PR number)
//   - Title merging for scope/prefix rules that share a display title
//   - Scope -> prefix -> commit grouping with configurable headings
//   - Template rendering with pull request and commit hash links
//   - Locating and replacing a version section inside an existing document
//
// The version header template drives section detection: no header syntax is
// hardcoded, so any template that exposes {{version}} can be located again on
// the next run.
package changelog
