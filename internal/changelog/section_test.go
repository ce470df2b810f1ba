package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLocator(t *testing.T) *Locator {
	t.Helper()
	l, err := NewLocator("")
	require.NoError(t, err)
	return l
}

func TestLocator_Locate(t *testing.T) {
	t.Parallel()

	doc := "# Changelog\n\n## Unreleased\n\n- wip\n\n## v1.0.0 - 2022-01-01\n\n- one\n\n## 0.9.0 - 2021-12-01\n\n- zero"

	tests := map[string]struct {
		version   string
		wantFound bool
		wantText  string
	}{
		"first section": {
			version:   "",
			wantFound: true,
			wantText:  "## Unreleased\n\n- wip\n\n",
		},
		"unreleased": {
			version:   "unreleased",
			wantFound: true,
			wantText:  "## Unreleased\n\n- wip\n\n",
		},
		"exact version": {
			version:   "v1.0.0",
			wantFound: true,
			wantText:  "## v1.0.0 - 2022-01-01\n\n- one\n\n",
		},
		"version without prefix": {
			version:   "1.0.0",
			wantFound: true,
			wantText:  "## v1.0.0 - 2022-01-01\n\n- one\n\n",
		},
		"last section runs to end": {
			version:   "v0.9.0",
			wantFound: true,
			wantText:  "## 0.9.0 - 2021-12-01\n\n- zero",
		},
		"missing version": {
			version: "v2.0.0",
		},
	}

	l := defaultLocator(t)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			loc, ok := l.Locate(doc, tt.version)
			require.Equal(t, tt.wantFound, ok)
			if ok {
				assert.Equal(t, tt.wantText, doc[loc.Start:loc.End])
			}
		})
	}
}

func TestLocator_Insert(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc     string
		content string
		version string
		want    string
	}{
		"replace in place": {
			doc:     "aaa\n\n## 1.0.0 - 2022/01/01\n\n- A\n\n## v0.1.0 - 2021/01/01",
			content: "B",
			version: "v1.0.0",
			want:    "aaa\n\nB\n\n## v0.1.0 - 2021/01/01",
		},
		"insert before newest": {
			doc:     "# Changelog\n\n## v1.0.0 - 2022/01/01\n\n- hogehoge\n\n## v0.1.0 - 2021/12/01\n\n- foobar",
			content: "## v1.1.0 - 2022/02/01\n\n- new version",
			version: "v1.1.0",
			want:    "# Changelog\n\n## v1.1.0 - 2022/02/01\n\n- new version\n\n## v1.0.0 - 2022/01/01\n\n- hogehoge\n\n## v0.1.0 - 2021/12/01\n\n- foobar",
		},
		"no version inserts before newest": {
			doc:     "# Changelog\n\n## v1.0.0 - 2022/01/01\n\n- hogehoge",
			content: "## v1.1.0 - 2022/02/01\n\n- new version",
			want:    "# Changelog\n\n## v1.1.0 - 2022/02/01\n\n- new version\n\n## v1.0.0 - 2022/01/01\n\n- hogehoge",
		},
		"empty document": {
			doc:     "",
			content: "B",
			want:    "B",
		},
		"only section replaced": {
			doc:     "## v1.0.0 - 2022/01/01\n\n-A",
			content: "B",
			version: "v1.0.0",
			want:    "B",
		},
		"append when no sections": {
			doc:     "# Changelog\nAll notable changes to this project will be documented in this file.\n",
			content: "## v0.1.0 - 2022/01/01\n\n- first",
			version: "v0.1.0",
			want:    "# Changelog\nAll notable changes to this project will be documented in this file.\n\n## v0.1.0 - 2022/01/01\n\n- first",
		},
		"release drops unreleased": {
			doc:     "# Changelog\n\n## Unreleased\n\n- wip\n\n## v1.0.0 - 2022/01/01\n\n- one",
			content: "## v1.1.0 - 2022/02/01\n\n- wip",
			version: "v1.1.0",
			want:    "# Changelog\n\n## v1.1.0 - 2022/02/01\n\n- wip\n\n## v1.0.0 - 2022/01/01\n\n- one",
		},
		"unreleased replaced in place": {
			doc:     "# Changelog\n\n## Unreleased\n\n- old\n\n## v1.0.0 - 2022/01/01\n\n- one",
			content: "## Unreleased\n\n- new",
			version: "unreleased",
			want:    "# Changelog\n\n## Unreleased\n\n- new\n\n## v1.0.0 - 2022/01/01\n\n- one",
		},
		"unreleased inserted before newest": {
			doc:     "# Changelog\n\n## v1.0.0 - 2022/01/01\n\n- one",
			content: "## Unreleased\n\n- new",
			version: "unreleased",
			want:    "# Changelog\n\n## Unreleased\n\n- new\n\n## v1.0.0 - 2022/01/01\n\n- one",
		},
		"crlf unreleased replaced in place": {
			doc:     "# Changelog\r\n\r\n## Unreleased\r\n\r\n- X\r\n\r\n## v1.0.0 - 2021-01-01\r\n\r\n- Y\r\n",
			content: "## Unreleased\n\n- Z",
			version: "unreleased",
			want:    "# Changelog\n\n## Unreleased\n\n- Z\n\n## v1.0.0 - 2021-01-01\r\n\r\n- Y",
		},
		"crlf release drops unreleased": {
			doc:     "# Changelog\r\n\r\n## Unreleased\r\n\r\n- X\r\n\r\n## v1.0.0 - 2021-01-01\r\n\r\n- Y\r\n",
			content: "## v1.1.0 - 2021-02-01\n\n- X",
			version: "v1.1.0",
			want:    "# Changelog\n\n## v1.1.0 - 2021-02-01\n\n- X\n\n## v1.0.0 - 2021-01-01\r\n\r\n- Y",
		},
		"crlf release replaced in place": {
			doc:     "# Changelog\r\n\r\n## v1.0.0 - 2021-01-01\r\n\r\n- Y\r\n",
			content: "## v1.0.0 - 2021-01-01\n\n- Y2",
			version: "v1.0.0",
			want:    "# Changelog\n\n## v1.0.0 - 2021-01-01\n\n- Y2",
		},
		"trailing spaces after headers": {
			doc:     "# Changelog\n\n## Unreleased  \n\n- X\n\n## v1.0.0 - 2021-01-01\t\n\n- Y",
			content: "## Unreleased\n\n- Z",
			version: "unreleased",
			want:    "# Changelog\n\n## Unreleased\n\n- Z\n\n## v1.0.0 - 2021-01-01\t\n\n- Y",
		},
	}

	l := defaultLocator(t)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, l.Insert(tt.doc, tt.content, tt.version))
		})
	}
}

func TestLocator_TemplateWithoutVersion(t *testing.T) {
	t.Parallel()

	l, err := NewLocator("## Release of {{date}}")
	require.NoError(t, err)

	doc := "## Release of 2022-01-01\n\n- old"
	_, ok := l.Locate(doc, "v1.0.0")
	assert.False(t, ok)
	_, ok = l.Locate(doc, "")
	assert.False(t, ok)

	assert.Equal(t, doc+"\n\nB", l.Insert(doc, "B", "v1.0.0"))
}

func TestLocator_CustomTemplate(t *testing.T) {
	t.Parallel()

	l, err := NewLocator("# [{{bareVersion}}] ({{date}})")
	require.NoError(t, err)

	doc := "intro\n\n# [1.1.0] (2022-02-01)\n\n- b\n\n# [1.0.0] (2022-01-01)\n\n- a"
	got := l.Insert(doc, "# [1.0.0] (2022-01-01)\n\n- a2", "v1.0.0")
	assert.Equal(t, "intro\n\n# [1.1.0] (2022-02-01)\n\n- b\n\n# [1.0.0] (2022-01-01)\n\n- a2", got)
}

func TestNewLocator_InvalidTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewLocator("## {{#unreleased}}")
	require.Error(t, err)
}

// Rendering and inserting the same version twice leaves a single section,
// identical to inserting once.
func TestInsert_Idempotent(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Prefixes = Rules{{Key: "feat", Rule: Titled("Feature")}}
	commits := commitsAt(Commit{Subject: "hoge", Prefix: "feat"})

	rendered, err := Render("v1.1.0", releaseDate, commits, opts)
	require.NoError(t, err)

	original := "# Changelog\n\n## v1.0.0 - 2021-01-01\n\n### Feature\n\n- Old"

	once, err := InsertSection(original, rendered.Changelog, "v1.1.0", opts.Templates.Version)
	require.NoError(t, err)
	twice, err := InsertSection(once, rendered.Changelog, "v1.1.0", opts.Templates.Version)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, "## v1.1.0 - 2021-02-01"))
	assert.True(t, strings.HasPrefix(twice, "# Changelog\n\n## v1.1.0"))
}

func TestInsert_IdempotentCRLF(t *testing.T) {
	t.Parallel()

	l := defaultLocator(t)
	tests := map[string]struct {
		doc     string
		content string
		version string
	}{
		"unreleased": {
			doc:     "# Changelog\r\n\r\n## Unreleased   \r\n\r\n- X\r\n\r\n## v1.0.0 - 2021-01-01\r\n\r\n- Y\r\n",
			content: "## Unreleased\n\n- Z",
			version: "unreleased",
		},
		"release": {
			doc:     "# Changelog\r\n\r\n## Unreleased\r\n\r\n- X\r\n\r\n## v1.0.0 - 2021-01-01\r\n\r\n- Y\r\n",
			content: "## v1.1.0 - 2021-02-01\n\n- X",
			version: "v1.1.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			once := l.Insert(tt.doc, tt.content, tt.version)
			twice := l.Insert(once, tt.content, tt.version)

			assert.Equal(t, once, twice)
			assert.Equal(t, 1, strings.Count(twice, tt.content))
			if tt.version != "unreleased" {
				assert.NotContains(t, twice, "Unreleased")
			} else {
				assert.Equal(t, 1, strings.Count(twice, "## Unreleased"))
			}
		})
	}
}
