// Package app provides application initialization and dependency injection.
//
// App is the core container shared by every entry point (serve, dash, ask,
// mcp). Setup builds the components in dependency order; Close releases them
// in reverse.
package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/darshil0/FinAgent-Pro/internal/config"
	"github.com/darshil0/FinAgent-Pro/internal/history"
	"github.com/darshil0/FinAgent-Pro/internal/log"
	"github.com/darshil0/FinAgent-Pro/internal/observability"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

// App is the core application container.
type App struct {
	// Configuration
	Config *config.Config

	// Core services
	Logger  log.Logger
	Query   *query.Service
	History *history.Store

	// Lifecycle management
	tracingShutdown func(context.Context) error
	cancel          context.CancelFunc
}

// Setup creates and initializes the application.
// Returns an App with embedded cleanup. Call Close() to release.
//
// A missing API key is not a setup error: the query service starts degraded
// and reports "configuration error" on submit, while history and health stay
// functional.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	a := &App{Config: cfg}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				slog.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.Logger = provideLogger(cfg)
	slog.SetDefault(a.Logger)

	shutdown, err := observability.Setup(ctx, cfg.Telemetry, a.Logger)
	if err != nil {
		return nil, err
	}
	a.tracingShutdown = shutdown

	gen, err := provideGenerator(ctx, cfg, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Query = query.NewService(gen, a.Logger.With("component", "query"))

	a.History = history.NewStore(cfg.HistoryPath, a.Logger.With("component", "history"))

	// Set up lifecycle management
	_, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	return a, nil
}

// provideLogger builds the root logger.
//
// Log level is controlled by the DEBUG environment variable: set (any value)
// enables debug level, unset keeps info level. Output goes to stderr so that
// stdout stays clean for command output and JSON-RPC in MCP mode.
func provideLogger(_ *config.Config) log.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

// provideGenerator creates the Gemini-backed generator, or nil when no API
// key is configured. A nil generator leaves the query service degraded
// without failing setup.
func provideGenerator(ctx context.Context, cfg *config.Config, logger log.Logger) (query.Generator, error) {
	if cfg.APIKey == "" {
		logger.Warn("no API key configured, query service starts degraded",
			"env", "GEMINI_API_KEY")
		return nil, nil
	}

	gen, err := query.NewGeminiGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("generator initialized", "model", cfg.ModelName)
	return gen, nil
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	// 1. Cancel context
	if a.cancel != nil {
		a.cancel()
	}

	// 2. Flush pending spans
	if a.tracingShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			slog.Warn("shutting down tracer provider", "error", err)
		}
	}

	return nil
}
