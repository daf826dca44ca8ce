// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zkdocs/pkg/types"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Build.NotebookDir)
	assert.Equal(t, 0, cfg.Build.LinkDepth)
	assert.True(t, cfg.Build.Sort)
	assert.Equal(t, "zk", cfg.Zk.Bin)
	assert.Equal(t, "metadata.id", cfg.Zk.IDField)
	assert.Equal(t, "markdown-implicit_figures", cfg.Pandoc.From)
	assert.Equal(t, "pdf", cfg.Pandoc.Format)
	assert.Equal(t, types.DefaultHeader(), cfg.Header)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadConfig_File(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	path := filepath.Join(t.TempDir(), "zkdocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
build:
  link_depth: 2
  sort: false
  exclude: ["journal/**"]
pandoc:
  format: docx
  extra_args: ["--toc"]
header:
  papersize: letter
  variables:
    title: Exam notes
history:
  enabled: false
watch:
  debounce: 2s
`), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Build.LinkDepth)
	assert.False(t, cfg.Build.Sort)
	assert.Equal(t, []string{"journal/**"}, cfg.Build.Exclude)
	assert.Equal(t, "docx", cfg.Pandoc.Format)
	assert.Equal(t, []string{"--toc"}, cfg.Pandoc.ExtraArgs)
	assert.Equal(t, "letter", cfg.Header.PaperSize)
	assert.Equal(t, []string{"twocolumn", "landscape"}, cfg.Header.ClassOption)
	assert.Equal(t, "Exam notes", cfg.Header.Variables["title"])
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_Env(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("ZKDOCS_BUILD_LINK_DEPTH", "3")
	t.Setenv("ZKDOCS_BUILD_SORT", "false")
	t.Setenv("ZKDOCS_PANDOC_FORMAT", "docx")
	t.Setenv("ZKDOCS_HEADER_PAPERSIZE", "letter")
	t.Setenv("ZKDOCS_HISTORY_ENABLED", "false")

	initConfig()
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Build.LinkDepth)
	assert.False(t, cfg.Build.Sort)
	assert.Equal(t, "docx", cfg.Pandoc.Format)
	assert.Equal(t, "letter", cfg.Header.PaperSize)
	assert.False(t, cfg.History.Enabled)
}

func TestBuildFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDepth int
		wantSort  bool
		wantExcl  []string
		wantFmt   string
	}{
		{
			name:      "defaults",
			args:      nil,
			wantDepth: 0,
			wantSort:  true,
			wantExcl:  []string{},
			wantFmt:   "pdf",
		},
		{
			name:      "documented flag set",
			args:      []string{"--depth", "2", "--no-sort", "--exclude", "journal/**", "--exclude", "drafts/*", "--format", "docx", "--no-render", "--watch"},
			wantDepth: 2,
			wantSort:  false,
			wantExcl:  []string{"journal/**", "drafts/*"},
			wantFmt:   "docx",
		},
		{
			name:      "short depth",
			args:      []string{"-d", "1"},
			wantDepth: 1,
			wantSort:  true,
			wantExcl:  []string{},
			wantFmt:   "pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			setDefaults()

			cmd := &cobra.Command{Use: "build"}
			addBuildFlags(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))
			bindCollectFlags(cmd)
			mustBind("pandoc.format", cmd.Flags().Lookup("format"))

			cfg, err := loadConfig()
			require.NoError(t, err)

			assert.Equal(t, tt.wantDepth, cfg.Build.LinkDepth)
			assert.Equal(t, tt.wantSort, cfg.Build.Sort)
			assert.ElementsMatch(t, tt.wantExcl, cfg.Build.Exclude)
			assert.Equal(t, tt.wantFmt, cfg.Pandoc.Format)
		})
	}
}

func TestBuildFlags_NoSortKeepsConfigSort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()
	viper.Set("build.sort", false)

	cmd := &cobra.Command{Use: "preview"}
	addCollectFlags(cmd)
	require.NoError(t, cmd.ParseFlags(nil))
	bindCollectFlags(cmd)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Build.Sort, "an unset --no-sort must not turn sorting back on")
}

func TestCollectOptions(t *testing.T) {
	bc := types.BuildConfig{LinkDepth: 2, Sort: true, Exclude: []string{"journal/**"}}

	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"plain", "exam", "exam"},
		{"padded", "  exam\t", "exam"},
		{"nested", " course/exam ", "course/exam"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := collectOptions(bc, tt.tag)
			assert.Equal(t, tt.want, opts.Tag)
			assert.Equal(t, 2, opts.LinkDepth)
			assert.True(t, opts.Sort)
			assert.Equal(t, []string{"journal/**"}, opts.Exclude)
		})
	}
}
