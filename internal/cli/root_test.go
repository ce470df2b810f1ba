package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "changelogen", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		groupID string
	}{
		"generate": {name: "generate", groupID: GroupRelease},
		"preview":  {name: "preview", groupID: GroupRelease},
		"init":     {name: "init", groupID: GroupConfiguration},
		"config":   {name: "config", groupID: GroupConfiguration},
		"version":  {name: "version"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cmd, _, err := rootCmd.Find([]string{tt.name})
			assert.NoError(t, err)
			assert.Equal(t, tt.name, cmd.Name())
			assert.Equal(t, tt.groupID, cmd.GroupID)
		})
	}
}

func TestWithDefaultCommand(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args []string
		want []string
	}{
		"no args": {
			args: []string{},
			want: []string{"generate"},
		},
		"flags only": {
			args: []string{"--version", "patch", "--dry-run"},
			want: []string{"generate", "--version", "patch", "--dry-run"},
		},
		"explicit subcommand": {
			args: []string{"preview", "--commits"},
			want: []string{"preview", "--commits"},
		},
		"help": {
			args: []string{"--help"},
			want: []string{"--help"},
		},
		"completion": {
			args: []string{"__complete", "gen"},
			want: []string{"__complete", "gen"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, withDefaultCommand(tt.args))
		})
	}
}

func TestGenerateCmd_Flags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName  string
		defValue  string
		noOptDef  string
		wantShort string
	}{
		"version":       {flagName: "version", defValue: "minor"},
		"output":        {flagName: "output", defValue: "CHANGELOG.md", wantShort: "o"},
		"latest":        {flagName: "latest", noOptDef: "CHANGELOG_latest.md"},
		"github-output": {flagName: "github-output", noOptDef: "env"},
		"tag":           {flagName: "tag", defValue: "false"},
		"dry-run":       {flagName: "dry-run", defValue: "false"},
		"dir":           {flagName: "dir", wantShort: "C"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := generateCmd.Flags().Lookup(tt.flagName)
			if !assert.NotNil(t, f) {
				return
			}
			assert.Equal(t, tt.defValue, f.DefValue)
			assert.Equal(t, tt.noOptDef, f.NoOptDefVal)
			assert.Equal(t, tt.wantShort, f.Shorthand)
		})
	}
}
