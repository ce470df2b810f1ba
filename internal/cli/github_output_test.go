package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readGitHubOutputs parses a GitHub Actions output file. Both the
// name=value and the name<<DELIMITER forms are accepted.
func readGitHubOutputs(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	outputs := make(map[string]string)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if name, delim, ok := strings.Cut(line, "<<"); ok && !strings.Contains(name, "=") {
			var value []string
			for i++; i < len(lines) && lines[i] != delim; i++ {
				value = append(value, lines[i])
			}
			outputs[name] = strings.Join(value, "\n")
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		require.True(t, ok, "malformed output line %q", line)
		outputs[name] = value
	}
	return outputs
}

func TestWriteGitHubOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pairs []outputPair
		want  map[string]string
	}{
		"single line": {
			pairs: []outputPair{{Name: "version", Value: "v1.2.0"}},
			want:  map[string]string{"version": "v1.2.0"},
		},
		"empty value": {
			pairs: []outputPair{{Name: "prevVersion", Value: ""}},
			want:  map[string]string{"prevVersion": ""},
		},
		"multi line": {
			pairs: []outputPair{
				{Name: "body", Value: "### Features\n\n- a"},
				{Name: "newChangelog", Value: "# Changelog\n\n## v1.2.0 - 2022-02-01\n\n- a"},
			},
			want: map[string]string{
				"body":         "### Features\n\n- a",
				"newChangelog": "# Changelog\n\n## v1.2.0 - 2022-02-01\n\n- a",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "out")
			var log bytes.Buffer

			require.NoError(t, writeGitHubOutput(path, tt.pairs, &log))
			assert.Equal(t, tt.want, readGitHubOutputs(t, path))
			assert.Empty(t, log.String())
		})
	}
}

func TestWriteGitHubOutput_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0o644))

	require.NoError(t, writeGitHubOutput(path, []outputPair{{Name: "version", Value: "v1.0.0"}}, &bytes.Buffer{}))

	assert.Equal(t, map[string]string{"existing": "1", "version": "v1.0.0"}, readGitHubOutputs(t, path))
}

func TestWriteGitHubOutput_Unwritable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out")
	err := writeGitHubOutput(path, []outputPair{{Name: "version", Value: "v1.0.0"}}, &bytes.Buffer{})
	require.Error(t, err)
}
