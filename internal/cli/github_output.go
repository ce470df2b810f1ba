package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sethvargo/go-githubactions"
)

// outputPair is one step output published to GitHub Actions.
type outputPair struct {
	Name  string
	Value string
}

// writeGitHubOutput appends pairs to the GitHub Actions output file at path.
// Workflow commands the toolkit falls back to are written to log.
func writeGitHubOutput(path string, pairs []outputPair, log io.Writer) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening GitHub output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing GitHub output file: %w", err)
	}

	action := githubactions.New(
		githubactions.WithWriter(log),
		githubactions.WithGetenv(func(key string) string {
			if key == githubOutputEnv {
				return path
			}
			return os.Getenv(key)
		}),
	)
	for _, p := range pairs {
		action.SetOutput(p.Name, p.Value)
	}
	return nil
}
