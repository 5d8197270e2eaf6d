// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// --- Global Command Variables ---
var (
	configPath string
	outputJSON bool

	rootCmd = &cobra.Command{
		Use:   "shieldops",
		Short: "A cli to query the ShieldOps operations gateway",
		Long: `ShieldOps is an SRE and security operations service. This cli
				talks to a running gateway to check health, pull engine reports,
				and ask the operations agent questions.`,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the cli version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("shieldops", Version)
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Check gateway health and per-engine record counts",
		Run:   runStatus, // Defined in cmd_status.go
	}

	reportCmd = &cobra.Command{
		Use:   "report [engine]",
		Short: "Pull the analytical report of one engine",
		Args:  cobra.ExactArgs(1),
		Run:   runReport, // Defined in cmd_report.go
	}

	askCmd = &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the operations agent a question",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk, // Defined in cmd_ask.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the cli config file")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false,
		"Print raw JSON responses")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(askCmd)
}
