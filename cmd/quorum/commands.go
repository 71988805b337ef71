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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Quorum/cmd/quorum/config"
)

// AppVersion is set at build time via -ldflags.
var AppVersion = "dev"

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess means consolidation completed cleanly.
	ExitSuccess = 0

	// ExitConflictsFound means consolidation succeeded but detected
	// conflicts and --fail-on-conflicts was set.
	ExitConflictsFound = 1

	// ExitError means the input was invalid or an operation failed.
	ExitError = 2
)

// --- Global Command Variables ---
var (
	rootCmd = &cobra.Command{
		Use:   "quorum",
		Short: "A cli to consolidate analysis reports from multiple sources",
		Long: `Quorum merges analysis reports produced by independent sources into a
single deduplicated report with agreement counts, consensus action ranking,
and inter-source conflict detection.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(ExitError)
			}
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the quorum version",
		Run:   runVersion, // Defined in cmd_version.go
	}

	consolidateCmd = &cobra.Command{
		Use:   "consolidate [report files...]",
		Short: "Merge source reports into one consolidated report",
		Long: `Read source report files (or stdin when no files are given), merge
them, and write the consolidated report as JSON to stdout or --output.

Each input file holds either a single report envelope or a JSON array of
them. Sources are processed in argument order; when two sources supply
different payloads for the same deduplicated item, the later source wins.

Examples:
  quorum consolidate a.json b.json          # Merge two report files
  cat reports.json | quorum consolidate     # Read an array from stdin
  quorum consolidate a.json --output out.json
  quorum consolidate a.json b.json --fail-on-conflicts

Exit Codes:
  0 = Consolidation succeeded
  1 = Conflicts detected (only with --fail-on-conflicts)
  2 = Invalid input or processing error`,
		Run: runConsolidateCommand, // Defined in cmd_consolidate.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the consolidation HTTP gateway",
		Run:   runServeCommand, // Defined in cmd_serve.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(consolidateCmd)
	rootCmd.AddCommand(serveCmd)
}
