// Package query implements the financial question-answering flow: validate
// the user's query, call the generative model once, extract the optional
// embedded chart payload, and wrap the outcome in a typed envelope.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
	"github.com/darshil0/FinAgent-Pro/internal/log"
)

// Query length bounds, in runes, applied after trimming.
const (
	MinQueryLen = 3
	MaxQueryLen = 2000
)

// Health statuses.
const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
)

// Generic user-facing error messages. Underlying causes are logged, never
// surfaced, so provider details and credentials stay out of responses.
const (
	msgConfigurationError = "configuration error"
	msgServiceUnavailable = "service unavailable"
)

// CoverageFlags report which stages of the flow completed for a request.
// They feed lightweight QA dashboards and do not gate correctness.
type CoverageFlags struct {
	InputValidation bool `json:"inputValidation"`
	APIResponse     bool `json:"apiResponse"`
	DataParsing     bool `json:"dataParsing"`
}

// Envelope is the result of one Submit call. Data carries the full response
// text with any embedded chart block left in place; Chart is the validated
// payload when extraction succeeded. Exactly one of Data/Error is meaningful
// depending on Success.
type Envelope struct {
	Success   bool           `json:"success"`
	Data      string         `json:"data,omitempty"`
	Chart     *chart.Payload `json:"chart,omitempty"`
	Error     string         `json:"error,omitempty"`
	Coverage  CoverageFlags  `json:"coverageFlags"`
	Timestamp int64          `json:"timestamp"`
	RequestID string         `json:"requestId"`
}

// Health is the no-network health report.
type Health struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Generator produces a text completion for a user query. Implementations
// must make exactly one outbound call per invocation.
type Generator interface {
	Generate(ctx context.Context, userQuery string) (string, error)
}

// Service orchestrates query submission. A Service with a nil generator is
// unconfigured (missing credential) and answers every Submit with a
// configuration error, keeping the process alive in degraded mode.
type Service struct {
	gen    Generator
	logger log.Logger
	tracer trace.Tracer
}

// NewService returns a Service backed by gen. Pass a nil gen when the
// provider credential is absent.
func NewService(gen Generator, logger log.Logger) *Service {
	return &Service{
		gen:    gen,
		logger: logger,
		tracer: otel.Tracer("finagent.query"),
	}
}

// Configured reports whether a generator is available.
func (s *Service) Configured() bool {
	return s.gen != nil
}

// Health reports operational status without touching the network.
func (s *Service) Health() Health {
	status := StatusOperational
	if !s.Configured() {
		status = StatusDegraded
	}
	return Health{Status: status, Timestamp: time.Now().UnixMilli()}
}

// Submit runs the full flow for raw. It never returns an error: every
// failure mode is folded into the envelope so callers have a single shape
// to render. Exactly one outbound call is made for a valid query; there are
// no retries.
func (s *Service) Submit(ctx context.Context, raw string) Envelope {
	start := time.Now()
	env := Envelope{
		Timestamp: start.UnixMilli(),
		RequestID: newRequestID(start),
	}

	ctx, span := s.tracer.Start(ctx, "query.Submit",
		trace.WithAttributes(attribute.String("request.id", env.RequestID)))
	defer span.End()

	if !s.Configured() {
		env.Error = msgConfigurationError
		s.logRequest(env, start, "missing provider credential")
		return env
	}

	trimmed := strings.TrimSpace(raw)
	if msg := validate(trimmed); msg != "" {
		env.Error = msg
		s.logRequest(env, start, "input rejected")
		return env
	}
	env.Coverage.InputValidation = true

	text, err := s.gen.Generate(ctx, trimmed)
	if err != nil {
		env.Error = msgServiceUnavailable
		s.logRequest(env, start, err.Error())
		return env
	}
	if strings.TrimSpace(text) == "" {
		env.Error = msgServiceUnavailable
		s.logRequest(env, start, "empty completion")
		return env
	}
	env.Coverage.APIResponse = true
	env.Success = true
	env.Data = text

	if payload, ok := chart.Extract(text); ok {
		env.Chart = payload
		env.Coverage.DataParsing = true
	} else if strings.Contains(text, chart.OpenTag) {
		s.logger.Warn("embedded chart payload rejected", "request_id", env.RequestID)
	}

	s.logRequest(env, start, "")
	return env
}

// validate returns a human-readable message naming every violated
// constraint, or "" when q is acceptable. Lengths count runes so multi-byte
// input is not penalized.
func validate(q string) string {
	n := utf8.RuneCountInString(q)

	var violations []string
	if n < MinQueryLen {
		violations = append(violations,
			fmt.Sprintf("query must be at least %d characters", MinQueryLen))
	}
	if n > MaxQueryLen {
		violations = append(violations,
			fmt.Sprintf("query must be at most %d characters", MaxQueryLen))
	}
	return strings.Join(violations, "; ")
}

// newRequestID combines the call timestamp with a random suffix so IDs stay
// unique even when two requests land in the same millisecond.
func newRequestID(t time.Time) string {
	return fmt.Sprintf("%d-%s", t.UnixMilli(), uuid.NewString()[:8])
}

func (s *Service) logRequest(env Envelope, start time.Time, cause string) {
	attrs := []any{
		"request_id", env.RequestID,
		"success", env.Success,
		"duration", time.Since(start),
	}
	if env.Success {
		attrs = append(attrs, "chart", env.Chart != nil)
		s.logger.Info("query completed", attrs...)
		return
	}
	attrs = append(attrs, "error", env.Error, "cause", cause)
	s.logger.Error("query failed", attrs...)
}
