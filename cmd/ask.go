package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/darshil0/FinAgent-Pro/internal/app"
	"github.com/darshil0/FinAgent-Pro/internal/config"
	"github.com/darshil0/FinAgent-Pro/internal/history"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot financial question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

// runAsk submits a single question and prints the markdown answer to stdout.
// The exchange is recorded in history like dashboard and API submissions.
func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Please run:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		return fmt.Errorf("GEMINI_API_KEY not set")
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

	question := strings.Join(args, " ")

	env := a.Query.Submit(ctx, question)
	if !env.Success {
		return fmt.Errorf("query failed: %s", env.Error)
	}

	if err := a.History.Append(history.Item{
		ID:        env.RequestID,
		Query:     question,
		Response:  env.Data,
		Timestamp: time.Now().UnixMilli(),
		Chart:     env.Chart,
		RequestID: env.RequestID,
	}); err != nil {
		slog.Warn("recording history entry", "error", err)
	}

	fmt.Println(env.Data)
	return nil
}
