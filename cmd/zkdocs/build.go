// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zkdocs/internal/build"
	"github.com/pdiddy/zkdocs/internal/render"
	"github.com/pdiddy/zkdocs/internal/runner"
	"github.com/pdiddy/zkdocs/internal/watch"
	"github.com/pdiddy/zkdocs/internal/zk"
)

var buildCmd = &cobra.Command{
	Use:   "build <tag>",
	Short: "Compile the notes carrying a tag into <tag>.md and <tag>.pdf",
	Long: `Build lists the notes tagged <tag> with zk, optionally adds the notes they
link to (--depth), drops the index note titled <tag>, sorts by title and
rewrites [id] references into titles. The result is written to <tag>.md
with a pandoc front-matter header and rendered by pandoc to <tag>.pdf.

With --watch, build keeps running and rebuilds whenever a note changes.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		bindCollectFlags(cmd)
		mustBind("pandoc.format", cmd.Flags().Lookup("format"))
		mustBind("watch.debounce", cmd.Flags().Lookup("debounce"))
		return nil
	},
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	noRender, _ := cmd.Flags().GetBool("no-render")
	watchMode, _ := cmd.Flags().GetBool("watch")

	exec := runner.New(logger)
	store := zk.NewStore(cfg.Zk, cfg.Build.NotebookDir, exec)
	pandoc := render.NewPandoc(cfg.Pandoc, cfg.Build.NotebookDir, exec, os.Stderr)

	bins := []string{store.Bin()}
	if !noRender {
		bins = append(bins, pandoc.Bin())
	}
	if err := runner.Require(exec, bins...); err != nil {
		return err
	}

	b := build.New(store, pandoc, logger).WithTagSuggestions(store)
	hist, err := openHistory(cfg.History)
	if err != nil {
		logger.Warn().Err(err).Msg("build history disabled")
	} else if hist != nil {
		defer hist.Close()
		b.WithRecorder(hist)
	}

	req := build.Request{
		Options:    collectOptions(cfg.Build, args[0]),
		Header:     cfg.Header,
		OutputDir:  cfg.Build.OutputDir,
		Extension:  pandoc.Extension(),
		SkipRender: noRender,
	}
	run := func(ctx context.Context) error {
		_, err := b.Run(ctx, req, os.Stdout)
		return err
	}

	if err := run(cmd.Context()); err != nil {
		if !watchMode {
			return err
		}
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
	}
	if !watchMode {
		return nil
	}

	doc, output, err := req.Paths()
	if err != nil {
		return err
	}
	w := watch.New(cfg.Build.NotebookDir, cfg.Watch.Debounce, logger)
	w.Ignore(doc, output)
	return w.Run(cmd.Context(), run, os.Stdout)
}

func addBuildFlags(cmd *cobra.Command) {
	addCollectFlags(cmd)
	cmd.Flags().String("format", "pdf", "output format extension passed to pandoc (pdf, docx, html, ...)")
	cmd.Flags().Bool("no-render", false, "write <tag>.md only, skip pandoc")
	cmd.Flags().Bool("watch", false, "rebuild whenever a note in the notebook changes")
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet period before a watch rebuild")
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}
