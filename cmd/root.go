// Package cmd provides CLI commands for FinAgent.
//
// Commands:
//   - (default) / dash: Interactive financial dashboard with Bubble Tea TUI
//   - ask: One-shot question from the command line
//   - serve: HTTP JSON API server
//   - mcp: Model Context Protocol server for IDE integration
//   - history: List, search, and clear the persisted query history
//   - version: Version and configuration information
//
// Signal handling and graceful shutdown are implemented for all long-running
// commands via context cancellation.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finagent",
	Short: "FinAgent - AI financial analysis in your terminal",
	Long: `FinAgent answers financial questions with a Gemini-backed analyst.

Running finagent without arguments starts the interactive dashboard.
Answers render as markdown, and responses that include structured series
data are charted inline. The last 50 exchanges persist across sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand enters dashboard mode
		return runDash()
	},
}

// Execute is the main entry point for the FinAgent CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Subcommands register themselves in their own files
}
