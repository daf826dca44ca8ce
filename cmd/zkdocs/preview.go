// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zkdocs/internal/build"
	"github.com/pdiddy/zkdocs/internal/render"
	"github.com/pdiddy/zkdocs/internal/runner"
	"github.com/pdiddy/zkdocs/internal/zk"
)

var previewCmd = &cobra.Command{
	Use:   "preview <tag>",
	Short: "Show the compiled document for a tag in the terminal",
	Long: `Preview collects notes exactly like build but renders the result to the
terminal instead of writing files. pandoc is not needed.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		bindCollectFlags(cmd)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		exec := runner.New(logger)
		store := zk.NewStore(cfg.Zk, cfg.Build.NotebookDir, exec)
		if err := runner.Require(exec, store.Bin()); err != nil {
			return err
		}

		opts := collectOptions(cfg.Build, args[0])
		doc, c, err := build.New(store, nil, logger).Preview(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if len(c.Notes) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "no notes found for tag %q\n", opts.Tag)
			return nil
		}
		return render.Preview(cmd.OutOrStdout(), doc)
	},
}

func init() {
	addCollectFlags(previewCmd)
	rootCmd.AddCommand(previewCmd)
}
