package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/changelogen/internal/changelog"
	"github.com/ariel-frischer/changelogen/internal/config"
	clierrors "github.com/ariel-frischer/changelogen/internal/errors"
	"github.com/ariel-frischer/changelogen/internal/git"
	"github.com/ariel-frischer/changelogen/internal/progress"
	"github.com/ariel-frischer/changelogen/internal/release"
)

// session is the repository and configuration one command works on.
type session struct {
	history    *git.History
	cfg        *config.Configuration
	configPath string
	root       string
}

// openSession opens the repository at dir and loads its configuration.
// Warnings go to warn.
func openSession(dir string, warn io.Writer) (*session, error) {
	h, err := git.Open(dir)
	if err != nil {
		shown := dir
		if shown == "" {
			shown = "."
		}
		return nil, clierrors.NotARepository(shown, err)
	}

	root := h.Root()
	if root == "" {
		root = dir
	}

	path := configPath
	if path == "" {
		path = config.FindProjectConfigIn(root)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		WarningWriter:     warn,
	})
	if err != nil {
		shown := path
		if shown == "" {
			shown = "configuration"
		}
		return nil, clierrors.ConfigParseError(shown, err)
	}

	if cfg.NeedsRepoDetection() {
		if repo, ok := h.RemoteRepo(); ok {
			cfg.Repo = repo
		}
	}

	return &session{history: h, cfg: cfg, configPath: path, root: root}, nil
}

// generate runs changelog generation. The spinner writes to status.
func (s *session) generate(ctx context.Context, status io.Writer, versionInput string, date time.Time, document string) (*changelog.Result, error) {
	sp := progress.NewSpinner(status, progress.DetectTerminalCapabilities())
	sp.Start("Reading commits")

	result, err := changelog.Generate(ctx, s.history, changelog.GenerateOptions{
		Version:       versionInput,
		Date:          date,
		Document:      document,
		MinorPrefixes: s.cfg.MinorPrefixes,
		Options:       s.cfg.Options(),
	})
	if err != nil {
		sp.Fail("Generating changelog failed")
		return nil, mapGenerateError(versionInput, err)
	}
	sp.Success(fmt.Sprintf("Read %d commits since %s", len(result.Commits), previousLabel(result.PrevVersion)))
	return result, nil
}

// mapGenerateError turns domain errors into CLI errors with remediation.
func mapGenerateError(versionInput string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, release.ErrInvalidVersion):
		return clierrors.InvalidVersion(versionInput, err)
	case errors.Is(err, release.ErrVersionExists):
		return clierrors.VersionExists(err)
	case errors.Is(err, changelog.ErrHistory):
		return clierrors.HistoryReadError(err)
	case strings.Contains(err.Error(), "template"):
		return clierrors.TemplateError(err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

// parseDate reads --date as YYYY-MM-DD or RFC3339. Empty input means now.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
}

// readDocument returns the changelog at path, or "" when it does not exist.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", clierrors.FileReadError(path, err)
	}
	return string(data), nil
}

// writeDocument writes content with exactly one trailing newline.
func writeDocument(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return clierrors.FileNotWritable(path, err)
		}
	}
	content = strings.TrimRight(content, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}

// resolvePath joins relative paths onto dir.
func resolvePath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
