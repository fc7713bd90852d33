package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/darshil0/FinAgent-Pro/internal/app"
	"github.com/darshil0/FinAgent-Pro/internal/config"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report service health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealth()
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth prints the same no-network health report the API serves.
// Degraded means the Gemini credential is missing; history and search keep
// working in that state.
func runHealth() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.Setup(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	h := a.Query.Health()
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Checked: %s\n", time.UnixMilli(h.Timestamp).Format(time.RFC3339))
	if h.Status == query.StatusDegraded {
		fmt.Println()
		fmt.Println("GEMINI_API_KEY is not set; queries will return a configuration error.")
	}
	return nil
}
