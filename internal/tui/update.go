package tui

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
	"github.com/darshil0/FinAgent-Pro/internal/history"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputHeight := m.input.Height() + promptLines
		fixedHeight := separatorLines + inputHeight + historyPaneLines + searchLines + helpLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.input.SetWidth(msg.Width - 4) // Room for "> " prompt
		m.help.SetWidth(msg.Width)
		m.markdown.UpdateWidth(msg.Width)

		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == StateThinking {
			m.rebuildViewportContent()
		}
		return m, cmd

	case queryDoneMsg:
		m.state = StateInput

		if msg.env.Success {
			m.answer = msg.env.Data
			m.chart = msg.env.Chart
			m.errText = ""
			// The dashboard owns history recording, mirroring how the
			// HTTP handler records on behalf of API callers. The store
			// logs persistence failures; the in-memory copy still holds
			// the entry.
			_ = m.store.Append(history.Item{
				ID:        msg.env.RequestID,
				Query:     msg.query,
				Response:  msg.env.Data,
				Timestamp: msg.env.Timestamp,
				Chart:     msg.env.Chart,
				RequestID: msg.env.RequestID,
			})
			m.refreshHistory()
		} else {
			m.answer = ""
			m.chart = nil
			m.errText = msg.env.Error
		}

		m.rebuildViewportContent()
		m.viewport.GotoTop()
		return m, m.input.Focus()

	case searchDebounceMsg:
		// Only the latest keystroke's tick runs the search.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.refreshHistory()
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused routes non-key messages (and fallthrough keys) to the
// focused input component.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusQuery:
		m.input, cmd = m.input.Update(msg)
	case focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.searchSeq++
			return m, tea.Batch(cmd, scheduleSearch(m.searchSeq))
		}
	}
	return m, cmd
}

// loadHistoryItem pulls a past answer back into the answer pane.
func (m *Model) loadHistoryItem(item history.Item) {
	m.answer = item.Response
	m.chart = item.Chart
	m.errText = ""
	m.rebuildViewportContent()
	m.viewport.GotoTop()
}

// displayAnswer is the answer text with the raw chart block stripped; the
// chart renders separately below it.
func (m *Model) displayAnswer() string {
	if m.chart == nil {
		return m.answer
	}
	return chart.Strip(m.answer)
}
