package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/darshil0/FinAgent-Pro/internal/config"
	"github.com/darshil0/FinAgent-Pro/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the persisted query history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent queries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryList("")
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <substring>",
	Short: "Search history by query text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryList(args[0])
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryClear()
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistoryStore loads configuration and opens the history store without
// initializing the rest of the application.
func openHistoryStore() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return history.NewStore(cfg.HistoryPath, slog.Default()), nil
}

func runHistoryList(substring string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}

	items := store.Search(substring)
	if len(items) == 0 {
		if substring == "" {
			fmt.Println("No history yet.")
		} else {
			fmt.Printf("No history entries matching %q.\n", substring)
		}
		return nil
	}

	for _, item := range items {
		marker := " "
		if item.Chart != nil {
			marker = "▪"
		}
		fmt.Printf("%s %s %s\n",
			formatTime(time.UnixMilli(item.Timestamp)),
			marker,
			item.Query,
		)
	}
	fmt.Printf("\n%d entries\n", len(items))
	return nil
}

func runHistoryClear() error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Println("History cleared.")
	return nil
}

// formatTime formats time in a human-readable format.
func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02 15:04")
	}
}
