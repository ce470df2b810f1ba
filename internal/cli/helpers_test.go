package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogen/internal/testutil"
)

const projectConfig = ".github/changelog.json"

// releasedRepo has v1.0.0 on the first commit and two commits after it.
func releasedRepo(t *testing.T) *testutil.GitRepo {
	t.Helper()
	r := testutil.NewGitRepo(t)
	r.Tag("v1.0.0", r.Commit("chore: initial"))
	r.Commit("fix(api): handle nil body")
	r.Commit("feat: add export (#12)")
	r.WriteFile(projectConfig, `{"repo": "octo/widgets", "prefixes": {"feat": "Features", "fix": "Fixes"}}`)
	return r
}

// testCommand returns a command with captured output for calling RunE
// functions directly.
func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	return cmd, &out, &errOut
}
