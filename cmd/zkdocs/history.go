// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zkdocs/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past builds",
	Long: `History lists recorded builds, newest first, with the number of notes
collected, the files produced and whether the build succeeded.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("build history is disabled (history.enabled: false)")
	}
	store, err := openHistory(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	tag, _ := cmd.Flags().GetString("tag")
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(cmd.Context(), history.Filter{Tag: tag, Limit: limit})
	if err != nil {
		return err
	}

	return formatHistory(cmd.OutOrStdout(), entries, historyFormat(cmd))
}

// historyFormat resolves the output format; --json and --yaml win over
// --format.
func historyFormat(cmd *cobra.Command) string {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return "json"
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return "yaml"
	}
	format, _ := cmd.Flags().GetString("format")
	return format
}

func formatHistory(w io.Writer, entries []history.Entry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No builds recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-20s  %-5s  %-5s  %-8s  %-6s  %s\n",
		"Started", "Tag", "Depth", "Notes", "Took", "Status", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, e := range entries {
		tag := e.Tag
		if len(tag) > 20 {
			tag = tag[:17] + "..."
		}
		out := e.Output
		if out == "" {
			out = e.Document
		}
		if e.Status == history.StatusFailed {
			out = e.Error
		}
		fmt.Fprintf(w, "%-19s  %-20s  %-5d  %-5d  %-8s  %-6s  %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"), tag, e.LinkDepth, e.Notes,
			e.Duration.Round(10*time.Millisecond).String(), e.Status, out)
	}
	return nil
}

func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", "", "only show builds of this tag")
	cmd.Flags().Int("limit", 20, "maximum number of builds to show")
	cmd.Flags().String("format", "table", "output format: table, json or yaml")
	cmd.Flags().Bool("json", false, "shorthand for --format json")
	cmd.Flags().Bool("yaml", false, "shorthand for --format yaml")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func init() {
	addHistoryFlags(historyCmd)
	rootCmd.AddCommand(historyCmd)
}
