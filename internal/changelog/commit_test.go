package changelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMessage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		line string
		want Message
	}{
		"prefix and scope": {
			line: "feat(web): hogehoge",
			want: Message{Prefix: "feat", Scope: "web", Subject: "hogehoge"},
		},
		"breaking marker without scope": {
			line: "fix!: hogehoge",
			want: Message{Prefix: "fix", BreakingChange: true, Subject: "hogehoge"},
		},
		"breaking change phrase": {
			line: "chore: hogehoge BREAKING CHANGE",
			want: Message{Prefix: "chore", BreakingChange: true, Subject: "hogehoge BREAKING CHANGE"},
		},
		"scope and breaking marker": {
			line: "perf(server)!: hogehoge",
			want: Message{Prefix: "perf", Scope: "server", BreakingChange: true, Subject: "hogehoge"},
		},
		"scope only": {
			line: "(web): a",
			want: Message{Scope: "web", Subject: "a"},
		},
		"no conventional header": {
			line: "Update README",
			want: Message{Subject: "Update README"},
		},
		"empty description falls back to line": {
			line: "feat:",
			want: Message{Prefix: "feat", Subject: "feat:"},
		},
		"whitespace only description falls back to line": {
			line: "feat(web):   ",
			want: Message{Prefix: "feat", Scope: "web", Subject: "feat(web):"},
		},
		"trailing pr number is kept in subject": {
			line: "fix: handle nil config (#123)",
			want: Message{Prefix: "fix", Subject: "handle nil config (#123)", PR: "123"},
		},
		"pr number not trailing": {
			line: "fix: (#12) first",
			want: Message{Prefix: "fix", Subject: "(#12) first"},
		},
		"uppercase type is not a prefix": {
			line: "WIP: stuff",
			want: Message{Subject: "WIP: stuff"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseMessage(tt.line))
		})
	}
}

func TestParseMessage_RecoversHeaderParts(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"feat", "fix", "chore", "docs"} {
		for _, scope := range []string{"web", "api/v2", "a b"} {
			for _, text := range []string{"add thing", "  padded text  ", "with: colon"} {
				line := prefix + "(" + scope + ")!: " + text
				got := ParseMessage(line)
				assert.Equal(t, prefix, got.Prefix, line)
				assert.Equal(t, scope, got.Scope, line)
				assert.True(t, got.BreakingChange, line)
				assert.Equal(t, trimSpace(text), got.Subject, line)
			}
		}
	}
}

func trimSpace(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

func TestClassify(t *testing.T) {
	t.Parallel()

	date := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		raw  RawCommit
		want Commit
	}{
		"subject and body": {
			raw: RawCommit{Hash: "abc", Date: date, Message: "feat(api): add endpoint\n\nLonger description."},
			want: Commit{
				Subject: "add endpoint", Body: "Longer description.", Hash: "abc", Date: date,
				Prefix: "feat", Scope: "api", Index: 4,
			},
		},
		"breaking change footer in body": {
			raw: RawCommit{Hash: "def", Date: date, Message: "refactor: drop v1 api\n\nBREAKING CHANGE: v1 is gone"},
			want: Commit{
				Subject: "drop v1 api", Body: "BREAKING CHANGE: v1 is gone", Hash: "def", Date: date,
				Prefix: "refactor", BreakingChange: true, Index: 4,
			},
		},
		"unclassifiable message": {
			raw:  RawCommit{Hash: "123", Date: date, Message: "Initial commit"},
			want: Commit{Subject: "Initial commit", Hash: "123", Date: date, Index: 4},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.raw, 4))
		})
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	t.Parallel()

	commits := ClassifyAll([]RawCommit{
		{Hash: "a", Message: "feat: one"},
		{Hash: "b", Message: "fix: two"},
	})

	assert.Len(t, commits, 2)
	assert.Equal(t, 0, commits[0].Index)
	assert.Equal(t, "one", commits[0].Subject)
	assert.Equal(t, 1, commits[1].Index)
	assert.Equal(t, "two", commits[1].Subject)
}
