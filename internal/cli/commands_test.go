package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelogen/internal/config"
)

func TestRunInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".github", "changelog.json")

	cmd, out, _ := testCommand()
	require.NoError(t, runInit(cmd, path, false))
	assert.Contains(t, out.String(), "Created "+path)

	err := runInit(cmd, path, false)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidConfig, ExitCode(err))

	require.NoError(t, runInit(cmd, path, true))
}

func TestConfigKeysCmd(t *testing.T) {
	t.Parallel()

	cmd, out, _ := testCommand()
	require.NoError(t, configKeysCmd.RunE(cmd, nil))

	for _, key := range config.SortedKeys() {
		assert.Contains(t, out.String(), key)
	}
}

func TestEffectiveConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.RepoDisabled = true

	data, err := json.Marshal(effectiveConfig(cfg))
	require.NoError(t, err)

	var shown map[string]any
	require.NoError(t, json.Unmarshal(data, &shown))
	assert.Equal(t, false, shown["repo"])
	assert.Equal(t, true, shown["linkPRs"])
	assert.Equal(t, "{{heading}} {{title}}", shown["scopeTemplate"])
	assert.Equal(t, []any{"feat"}, shown["minorPrefixes"])
}

func TestVersionCmd_Plain(t *testing.T) {
	versionPlain = true
	t.Cleanup(func() { versionPlain = false })

	cmd, out, _ := testCommand()
	versionCmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "changelogen dev\n")
	assert.Contains(t, out.String(), "platform: ")
}

func TestRunPreview(t *testing.T) {
	r := releasedRepo(t)

	previewVersion, previewDate, previewDir = "auto", "2022-02-01", r.Dir
	previewCommits, previewPlain = true, true
	t.Cleanup(func() {
		previewVersion, previewDate, previewDir = "minor", "", ""
		previewCommits, previewPlain = false, false
	})

	cmd, out, _ := testCommand()
	require.NoError(t, runPreview(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "Version: v1.1.0\n")
	assert.Contains(t, text, "Previous: v1.0.0 (2022-01-01)\n")
	assert.Contains(t, text, "Commits: 2\n")
	assert.Contains(t, text, "[feat] add export (#12)")
	assert.Contains(t, text, "[fix(api)] handle nil body")
	assert.Contains(t, text, "## v1.1.0 - 2022-02-01")
	assert.NoFileExists(t, filepath.Join(r.Dir, defaultOutputFile))
}
