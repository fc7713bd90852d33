package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshil0/FinAgent-Pro/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), config.TelemetryConfig{}, discardLogger())

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_DefaultEndpoint(t *testing.T) {
	t.Parallel()

	cfg := config.TelemetryConfig{
		Enabled:     true,
		Environment: "test",
		ServiceName: "finagent-test",
	}

	shutdown, err := Setup(context.Background(), cfg, discardLogger())

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_CollectorUnavailable_GracefulDegradation(t *testing.T) {
	t.Parallel()

	// Point to a non-existent collector; exporter creation succeeds and
	// spans fail to export silently.
	cfg := config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "localhost:1",
		Environment: "test",
		ServiceName: "finagent-test",
	}

	shutdown, err := Setup(context.Background(), cfg, discardLogger())

	require.NoError(t, err)
	require.NotNil(t, shutdown)
}
