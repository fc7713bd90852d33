package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
	"github.com/darshil0/FinAgent-Pro/internal/log"
)

// fakeGenerator returns a canned completion and counts outbound calls.
type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "Markets closed higher on strong earnings."}
	svc := NewService(gen, log.NewNop())

	env := svc.Submit(context.Background(), "How did markets close today?")

	assert.True(t, env.Success)
	assert.Equal(t, gen.text, env.Data)
	assert.Empty(t, env.Error)
	assert.Nil(t, env.Chart)
	assert.Equal(t, CoverageFlags{InputValidation: true, APIResponse: true}, env.Coverage)
	assert.NotZero(t, env.Timestamp)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, 1, gen.calls)
}

func TestSubmit_SuccessWithChart(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "Revenue grew.\n<chart>" +
		`{"type":"trend","items":[{"name":"Q1","value":10},{"name":"Q2","value":12}]}` +
		"</chart>"}
	svc := NewService(gen, log.NewNop())

	env := svc.Submit(context.Background(), "Plot quarterly revenue")

	require.True(t, env.Success)
	require.NotNil(t, env.Chart)
	assert.Equal(t, chart.TypeTrend, env.Chart.Type)
	assert.Len(t, env.Chart.Items, 2)
	assert.True(t, env.Coverage.DataParsing)
	// The raw block stays in the text; stripping it is a display concern.
	assert.Contains(t, env.Data, chart.OpenTag)
}

func TestSubmit_MalformedChartIsNonFatal(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "Answer text <chart>{not json}</chart>"}
	svc := NewService(gen, log.NewNop())

	env := svc.Submit(context.Background(), "Plot something")

	assert.True(t, env.Success)
	assert.Equal(t, gen.text, env.Data)
	assert.Nil(t, env.Chart)
	assert.True(t, env.Coverage.APIResponse)
	assert.False(t, env.Coverage.DataParsing)
}

func TestSubmit_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, log.NewNop())

	env := svc.Submit(context.Background(), "How did markets close today?")

	assert.False(t, env.Success)
	assert.Equal(t, "configuration error", env.Error)
	assert.Equal(t, CoverageFlags{}, env.Coverage)
	assert.NotEmpty(t, env.RequestID)
}

func TestSubmit_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "at least 3"},
		{"whitespace only", "   \n\t  ", "at least 3"},
		{"too short", "hi", "at least 3"},
		{"too short after trim", "  a  ", "at least 3"},
		{"too long", strings.Repeat("x", MaxQueryLen+1), "at most 2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := &fakeGenerator{text: "unused"}
			svc := NewService(gen, log.NewNop())

			env := svc.Submit(context.Background(), tt.raw)

			assert.False(t, env.Success)
			assert.Contains(t, env.Error, tt.want)
			assert.Equal(t, CoverageFlags{}, env.Coverage)
			assert.Zero(t, gen.calls, "invalid input must not reach the provider")
		})
	}
}

func TestSubmit_LengthCountsRunes(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "ok answer"}
	svc := NewService(gen, log.NewNop())

	// 2000 runes, well over 2000 bytes.
	env := svc.Submit(context.Background(), strings.Repeat("日", MaxQueryLen))
	assert.True(t, env.Success)
	assert.Equal(t, 1, gen.calls)
}

func TestSubmit_BoundaryLengths(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "ok"}
	svc := NewService(gen, log.NewNop())

	assert.True(t, svc.Submit(context.Background(), strings.Repeat("a", MinQueryLen)).Success)
	assert.True(t, svc.Submit(context.Background(), strings.Repeat("a", MaxQueryLen)).Success)
	assert.Equal(t, 2, gen.calls)
}

func TestSubmit_UpstreamError(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewService(gen, log.NewNop())

	env := svc.Submit(context.Background(), "What moved the S&P 500?")

	assert.False(t, env.Success)
	assert.Equal(t, "service unavailable", env.Error)
	assert.NotContains(t, env.Error, "quota", "provider detail must not surface")
	assert.Equal(t, CoverageFlags{InputValidation: true}, env.Coverage)
	assert.Equal(t, 1, gen.calls)
}

func TestSubmit_EmptyCompletion(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "  \n "}
	svc := NewService(gen, log.NewNop())

	env := svc.Submit(context.Background(), "What moved the S&P 500?")

	assert.False(t, env.Success)
	assert.Equal(t, "service unavailable", env.Error)
	assert.Equal(t, CoverageFlags{InputValidation: true}, env.Coverage)
}

func TestSubmit_OneOutboundCallPerInvocation(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "answer"}
	svc := NewService(gen, log.NewNop())

	for range 5 {
		svc.Submit(context.Background(), "Valid question about bonds")
	}
	assert.Equal(t, 5, gen.calls)
}

func TestSubmit_UniqueRequestIDs(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{text: "answer"}
	svc := NewService(gen, log.NewNop())

	seen := make(map[string]bool)
	for range 20 {
		id := svc.Submit(context.Background(), "Valid question").RequestID
		require.False(t, seen[id], "duplicate request id %s", id)
		seen[id] = true
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	degraded := NewService(nil, log.NewNop()).Health()
	assert.Equal(t, StatusDegraded, degraded.Status)
	assert.NotZero(t, degraded.Timestamp)

	operational := NewService(&fakeGenerator{}, log.NewNop()).Health()
	assert.Equal(t, StatusOperational, operational.Status)
}
