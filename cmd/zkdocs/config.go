// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/zkdocs/internal/collect"
	"github.com/pdiddy/zkdocs/internal/history"
	"github.com/pdiddy/zkdocs/pkg/types"
)

// loadConfig decodes the merged flags, environment and config file.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// mustBind ties a config key to a flag. It panics on a nil flag, which is
// a programming error in init.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// bindCollectFlags binds the note selection flags shared by build and
// preview. It runs in PreRunE so each subcommand binds its own flag set.
// --no-sort has no key of its own; setting it overrides build.sort.
func bindCollectFlags(cmd *cobra.Command) {
	mustBind("build.link_depth", cmd.Flags().Lookup("depth"))
	mustBind("build.exclude", cmd.Flags().Lookup("exclude"))
	if noSort, _ := cmd.Flags().GetBool("no-sort"); noSort {
		viper.Set("build.sort", false)
	}
}

func addCollectFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("depth", "d", 0, "follow links from tagged notes up to this distance (0 = off)")
	cmd.Flags().Bool("no-sort", false, "keep zk's path order instead of sorting notes by title")
	cmd.Flags().StringSlice("exclude", nil, "skip notes whose path matches this glob (repeatable, ** allowed)")
}

// collectOptions builds the note selection for tag from the build config.
// The tag is trimmed once here so zk, the index-note filter and the file
// names all see the same value.
func collectOptions(cfg types.BuildConfig, tag string) collect.Options {
	return collect.Options{
		Tag:       strings.TrimSpace(tag),
		LinkDepth: cfg.LinkDepth,
		Sort:      cfg.Sort,
		Exclude:   cfg.Exclude,
	}
}

// openHistory opens the configured history database, or returns nil when
// history is disabled.
func openHistory(cfg types.HistoryConfig) (*history.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	path := cfg.DBPath
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}
