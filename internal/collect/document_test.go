// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zkdocs/pkg/types"
)

func TestFrontMatter(t *testing.T) {
	fm, err := FrontMatter(types.DefaultHeader())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(fm, "---\n"), "front matter should open with ---")
	require.True(t, strings.HasSuffix(fm, "\n---\n\n"), "front matter should close with --- and a blank line")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(strings.Trim(fm, "-\n")), &got))
	assert.Equal(t, []any{"twocolumn", "landscape"}, got["classoption"])
	assert.Equal(t, []any{"margin=1cm"}, got["geometry"])
	assert.Equal(t, "a4", got["papersize"])
	assert.Equal(t, "10pt", got["fontsize"])
}

func TestFrontMatter_Variables(t *testing.T) {
	hdr := types.HeaderConfig{
		PaperSize: "letter",
		Variables: map[string]any{"title": "Exam: notes", "toc": true},
	}
	fm, err := FrontMatter(hdr)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(strings.Trim(fm, "-\n")), &got))
	assert.Equal(t, map[string]any{"papersize": "letter", "title": "Exam: notes", "toc": true}, got)
}

func TestFrontMatter_VariableCollision(t *testing.T) {
	for _, key := range []string{"classoption", "geometry", "papersize", "fontsize"} {
		t.Run(key, func(t *testing.T) {
			hdr := types.DefaultHeader()
			hdr.Variables = map[string]any{key: "x", "title": "Exam"}

			fm, err := FrontMatter(hdr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "header."+key)
			assert.Empty(t, fm)
		})
	}
}

func TestFrontMatter_Empty(t *testing.T) {
	fm, err := FrontMatter(types.HeaderConfig{})
	require.NoError(t, err)
	assert.Empty(t, fm)
}

func TestAssemble(t *testing.T) {
	notes := []types.Note{{Body: "# One"}, {Body: "# Two\n"}, {Body: "# Three"}}
	assert.Equal(t, "HDR# One\n\n# Two\n\n\n# Three", Assemble("HDR", notes))
	assert.Equal(t, "HDR", Assemble("HDR", nil))
}
