package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/darshil0/FinAgent-Pro/internal/query"
)

// queryDoneMsg carries the completed envelope for a submitted query.
type queryDoneMsg struct {
	query string
	env   query.Envelope
}

// searchDebounceMsg fires after the debounce interval; seq identifies the
// keystroke that scheduled it.
type searchDebounceMsg struct {
	seq int
}

// submitQuery runs the query flow off the UI goroutine. Bubble Tea executes
// the returned command in its own goroutine, so the blocking Submit call
// never stalls rendering.
func (m *Model) submitQuery(q string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		return queryDoneMsg{query: q, env: client.Submit(ctx, q)}
	}
}

// scheduleSearch emits a debounce tick bound to seq. Ticks from superseded
// keystrokes arrive with a stale seq and are dropped in Update.
func scheduleSearch(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}
