// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ZkConfig holds settings for the zk note store.
type ZkConfig struct {
	// Bin is the zk executable name or path (default "zk").
	Bin string `json:"bin" yaml:"bin" mapstructure:"bin"`

	// IDField is the template expression zk evaluates for a note id
	// (default "metadata.id").
	IDField string `json:"id_field" yaml:"id_field" mapstructure:"id_field"`
}

// PandocConfig holds settings for the pandoc renderer.
type PandocConfig struct {
	// Bin is the pandoc executable name or path (default "pandoc").
	Bin string `json:"bin" yaml:"bin" mapstructure:"bin"`

	// From is the pandoc source format (default "markdown-implicit_figures").
	From string `json:"from" yaml:"from" mapstructure:"from"`

	// Format is the extension of the rendered artifact, which pandoc also
	// uses to pick the writer (default "pdf").
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// ExtraArgs are appended verbatim to every pandoc invocation.
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty" mapstructure:"extra_args"`
}

// HeaderConfig is the pandoc front matter written at the top of the
// assembled document. It controls page layout for the PDF writer.
type HeaderConfig struct {
	ClassOption []string `json:"classoption,omitempty" yaml:"classoption,omitempty" mapstructure:"classoption"`
	Geometry    []string `json:"geometry,omitempty" yaml:"geometry,omitempty" mapstructure:"geometry"`
	PaperSize   string   `json:"papersize,omitempty" yaml:"papersize,omitempty" mapstructure:"papersize"`
	FontSize    string   `json:"fontsize,omitempty" yaml:"fontsize,omitempty" mapstructure:"fontsize"`

	// Variables holds any other pandoc metadata (title, author, toc, ...).
	Variables map[string]any `json:"variables,omitempty" yaml:",inline" mapstructure:"variables"`
}

// DefaultHeader returns the two-column landscape A4 layout.
func DefaultHeader() HeaderConfig {
	return HeaderConfig{
		ClassOption: []string{"twocolumn", "landscape"},
		Geometry:    []string{"margin=1cm"},
		PaperSize:   "a4",
		FontSize:    "10pt",
	}
}

// HistoryConfig holds settings for the build history database.
type HistoryConfig struct {
	// Enabled turns history recording on or off (default true).
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// DBPath is the SQLite database file. Empty means
	// ~/.config/zkdocs/history.db.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// BuildConfig holds settings for collecting and assembling one document.
type BuildConfig struct {
	// NotebookDir is the zk notebook root. zk and pandoc run inside it.
	NotebookDir string `json:"notebook_dir" yaml:"notebook_dir" mapstructure:"notebook_dir"`

	// OutputDir receives <tag>.md and the rendered artifact.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// LinkDepth is the maximum link distance followed from tagged notes.
	// Zero disables link following.
	LinkDepth int `json:"link_depth" yaml:"link_depth" mapstructure:"link_depth"`

	// Sort orders notes case-insensitively by title (default true).
	Sort bool `json:"sort" yaml:"sort" mapstructure:"sort"`

	// Exclude lists doublestar globs matched against note paths.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`
}

// WatchConfig holds settings for rebuild-on-change mode.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before a rebuild
	// (default 500ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
}

// Config groups all stage configurations.
type Config struct {
	Build    BuildConfig   `json:"build" yaml:"build" mapstructure:"build"`
	Zk       ZkConfig      `json:"zk" yaml:"zk" mapstructure:"zk"`
	Pandoc   PandocConfig  `json:"pandoc" yaml:"pandoc" mapstructure:"pandoc"`
	Header   HeaderConfig  `json:"header" yaml:"header" mapstructure:"header"`
	History  HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Watch    WatchConfig   `json:"watch" yaml:"watch" mapstructure:"watch"`
	LogLevel string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}
