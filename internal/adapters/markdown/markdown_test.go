package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/storeview/internal/core"
	"github.com/3-lines-studio/storeview/internal/viewfile"
)

func TestNewUnknownPreset(t *testing.T) {
	_, err := New(core.TransformConfig{Presets: []string{"gfm", "mdx"}})
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestTransformPlain(t *testing.T) {
	tr, err := New(core.TransformConfig{})
	require.NoError(t, err)

	out, err := tr.Transform("home.md", []byte("# Hello\n\nSome *text*.\n"))
	require.NoError(t, err)
	assert.Equal(t, "<h1 id=\"hello\">Hello</h1>\n<p>Some <em>text</em>.</p>\n", string(out))
}

func TestTransformKeepsFrontMatter(t *testing.T) {
	tr, err := New(core.DefaultTransformConfig())
	require.NoError(t, err)

	src := "---\nstore:\n  title: Hi\npre: <main>\n---\n<div>{{.State.title}}</div>\n"
	out, err := tr.Transform("home.md", []byte(src))
	require.NoError(t, err)

	doc, err := viewfile.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.Meta.Store["title"])
	assert.Equal(t, "<main>", doc.Meta.Pre)
	assert.Equal(t, "<div>{{.State.title}}</div>\n", doc.Body)
}

func TestTransformPresets(t *testing.T) {
	tests := []struct {
		name    string
		presets []string
		src     string
		want    string
	}{
		{
			name:    "gfm tables",
			presets: []string{PresetGFM},
			src:     "| a |\n|---|\n| 1 |\n",
			want:    "<table>",
		},
		{
			name:    "gfm strikethrough",
			presets: []string{PresetGFM},
			src:     "~~gone~~\n",
			want:    "<del>gone</del>",
		},
		{
			name:    "highlight",
			presets: []string{PresetHighlight},
			src:     "```go\nfunc main() {}\n```\n",
			want:    `class="chroma"`,
		},
		{
			name:    "footnote",
			presets: []string{PresetFootnote},
			src:     "Text[^1]\n\n[^1]: Note\n",
			want:    `class="footnotes"`,
		},
		{
			name:    "definitions",
			presets: []string{PresetDefinitions},
			src:     "Term\n: Meaning\n",
			want:    "<dl>",
		},
		{
			name:    "typographer",
			presets: []string{PresetTypographer},
			src:     "Wait...\n",
			want:    "&hellip;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(core.TransformConfig{Presets: tt.presets, Style: "github"})
			require.NoError(t, err)

			out, err := tr.Transform("view.md", []byte(tt.src))
			require.NoError(t, err)
			assert.True(t, strings.Contains(string(out), tt.want), "output %q missing %q", out, tt.want)
		})
	}
}
