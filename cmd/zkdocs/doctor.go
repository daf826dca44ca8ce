// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zkdocs/internal/runner"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that zk and pandoc are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		exec := runner.New(logger)
		bins := []string{cfg.Zk.Bin, cfg.Pandoc.Bin}
		for _, bin := range bins {
			if path, err := exec.LookPath(bin); err == nil {
				fmt.Printf("ok       %-8s %s\n", bin, path)
			} else {
				fmt.Printf("missing  %-8s\n", bin)
			}
		}
		return runner.Require(exec, bins...)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
