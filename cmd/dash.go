package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/darshil0/FinAgent-Pro/internal/app"
	"github.com/darshil0/FinAgent-Pro/internal/config"
	"github.com/darshil0/FinAgent-Pro/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Start the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDash()
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

// runDash initializes and starts the interactive dashboard TUI.
func runDash() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	model, err := tui.New(ctx, a.Query, a.History)
	if err != nil {
		return fmt.Errorf("creating dashboard: %w", err)
	}

	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err = program.Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
