package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/darshil0/FinAgent-Pro/internal/history"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

// queryHandler handles query submission and provider health.
type queryHandler struct {
	logger  *slog.Logger
	service *query.Service
	history *history.Store
}

// SubmitRequest is the request body for POST /api/v1/query.
type SubmitRequest struct {
	Query string `json:"query"`
}

// submit runs the query flow and records successful answers in history.
// The response is always a query envelope with HTTP 200; the envelope's own
// success flag and coverage flags carry the outcome.
func (h *queryHandler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	env := h.service.Submit(r.Context(), req.Query)

	if env.Success {
		item := history.Item{
			ID:        env.RequestID,
			Query:     req.Query,
			Response:  env.Data,
			Timestamp: env.Timestamp,
			Chart:     env.Chart,
			RequestID: env.RequestID,
		}
		// Persistence failure degrades to in-memory history, never the
		// response.
		if err := h.history.Append(item); err != nil {
			h.logger.Warn("recording history", "error", err, "request_id", env.RequestID)
		}
	}

	writeJSON(w, http.StatusOK, env)
}

// health reports provider health without a network call.
func (h *queryHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Health())
}
