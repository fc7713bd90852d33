package api

import (
	"log/slog"
	"net/http"

	"github.com/darshil0/FinAgent-Pro/internal/history"
)

// historyHandler handles history listing, search, and clearing.
type historyHandler struct {
	logger *slog.Logger
	store  *history.Store
}

// historyResponse wraps a list of history items.
type historyResponse struct {
	Items []history.Item `json:"items"`
	Total int            `json:"total"`
}

// list returns the full history, newest first.
func (h *historyHandler) list(w http.ResponseWriter, _ *http.Request) {
	writeItems(w, h.store.Items())
}

// search filters history by the ?q= query substring, case-insensitively.
// An empty or absent q returns everything.
func (h *historyHandler) search(w http.ResponseWriter, r *http.Request) {
	writeItems(w, h.store.Search(r.URL.Query().Get("q")))
}

// writeItems serializes items, normalizing nil to an empty array so clients
// always see a list.
func writeItems(w http.ResponseWriter, items []history.Item) {
	if items == nil {
		items = []history.Item{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Items: items, Total: len(items)})
}

// clear removes all history items.
func (h *historyHandler) clear(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.logger.Error("clearing history", "error", err)
		WriteError(w, http.StatusInternalServerError, "clear_failed", "failed to clear history", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
