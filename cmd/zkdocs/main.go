// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the zkdocs CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/zkdocs/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --log-level before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the zkdocs CLI.
var rootCmd = &cobra.Command{
	Use:   "zkdocs",
	Short: "Compile tagged zk notes into one printable document",
	Long: `zkdocs collects the notes of a zk notebook that carry a tag, optionally
follows their links to related notes, rewrites [id] references into note
titles, and joins everything into a single Markdown document that pandoc
renders to PDF (or any other pandoc output format).

zkdocs needs the zk and pandoc executables on PATH.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./zkdocs.yaml or ~/.config/zkdocs/config.yaml)")
	rootCmd.PersistentFlags().String("notebook-dir", ".", "zk notebook root; zk and pandoc run here")
	rootCmd.PersistentFlags().String("output-dir", ".", "directory receiving the generated files")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")

	mustBind("build.notebook_dir", rootCmd.PersistentFlags().Lookup("notebook-dir"))
	mustBind("build.output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	mustBind("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("zkdocs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zkdocs"))
		}
	}

	viper.SetEnvPrefix("ZKDOCS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setDefaults registers the default value of every configuration key.
func setDefaults() {
	hdr := types.DefaultHeader()

	viper.SetDefault("build.notebook_dir", ".")
	viper.SetDefault("build.output_dir", ".")
	viper.SetDefault("build.link_depth", 0)
	viper.SetDefault("build.sort", true)
	viper.SetDefault("zk.bin", "zk")
	viper.SetDefault("zk.id_field", "metadata.id")
	viper.SetDefault("pandoc.bin", "pandoc")
	viper.SetDefault("pandoc.from", "markdown-implicit_figures")
	viper.SetDefault("pandoc.format", "pdf")
	viper.SetDefault("header.classoption", hdr.ClassOption)
	viper.SetDefault("header.geometry", hdr.Geometry)
	viper.SetDefault("header.papersize", hdr.PaperSize)
	viper.SetDefault("header.fontsize", hdr.FontSize)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("watch.debounce", "500ms")
	viper.SetDefault("log_level", "warn")
}
