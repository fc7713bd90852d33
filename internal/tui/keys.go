package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Slash command constants.
const (
	cmdHelp   = "/help"
	cmdClear  = "/clear"
	cmdHealth = "/health"
	cmdExit   = "/exit"
	cmdQuit   = "/quit"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Submit     key.Binding
	NewLine    key.Binding
	Pane       key.Binding
	Select     key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),
		NewLine:    key.NewBinding(key.WithKeys("shift+enter"), key.WithHelp("s+enter", "newline")),
		Pane:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		Select:     key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select")),
		Cancel:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "clear")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c':
			return m.handleCtrlC()
		case 'd':
			return m, m.cleanup()
		}
	}

	switch k.Code {
	case tea.KeyEnter:
		if m.focus == focusSearch {
			return m.handleSelect()
		}
		// Enter submits; Shift+Enter falls through to the textarea as a
		// newline. Submissions while a query is in flight are dropped so
		// only one upstream call exists at a time.
		if m.state == StateInput && k.Mod&tea.ModShift == 0 {
			return m.handleSubmit()
		}
		if m.state == StateThinking && k.Mod&tea.ModShift == 0 {
			return m, nil
		}

	case tea.KeyTab:
		return m.toggleFocus()

	case tea.KeyUp:
		if m.focus == focusSearch {
			return m.moveSelection(-1)
		}

	case tea.KeyDown:
		if m.focus == focusSearch {
			return m.moveSelection(1)
		}

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *Model) handleCtrlC() (tea.Model, tea.Cmd) {
	now := time.Now()

	// Double Ctrl+C within 1 second = quit
	if now.Sub(m.lastCtrlC) < time.Second {
		return m, m.cleanup()
	}
	m.lastCtrlC = now

	switch m.focus {
	case focusQuery:
		m.input.Reset()
	case focusSearch:
		m.search.Reset()
		m.searchSeq++
		m.refreshHistory()
	}
	return m, nil
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return m, nil
	}

	if strings.HasPrefix(q, "/") {
		return m.handleSlashCommand(q)
	}

	m.input.Reset()
	m.state = StateThinking
	m.errText = ""
	m.rebuildViewportContent()

	return m, tea.Batch(
		m.spinner.Tick,
		m.submitQuery(q),
	)
}

func (m *Model) handleSlashCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case cmdHelp:
		m.answer = "Commands: " + cmdHelp + ", " + cmdHealth + ", " + cmdClear + ", " + cmdExit +
			"\n\nShortcuts:\n" +
			"  Enter: ask\n" +
			"  Shift+Enter: new line\n" +
			"  Tab: switch between query and history panes\n" +
			"  Up/Down: select a past answer (history pane)\n" +
			"  Ctrl+C: clear input (twice to exit)\n" +
			"  Ctrl+D: exit\n" +
			"  PgUp/PgDn: scroll the answer"
		m.chart = nil
		m.errText = ""
	case cmdHealth:
		h := m.client.Health()
		m.answer = fmt.Sprintf("Service status: **%s**", h.Status)
		m.chart = nil
		m.errText = ""
	case cmdClear:
		if err := m.store.Clear(); err != nil {
			m.errText = "failed to clear history: " + err.Error()
		}
		m.refreshHistory()
		m.selected = 0
	case cmdExit, cmdQuit:
		return m, m.cleanup()
	default:
		m.errText = "Unknown command: " + cmd
	}
	m.input.Reset()
	m.rebuildViewportContent()
	return m, nil
}

// toggleFocus switches keyboard focus between the query and history panes.
func (m *Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusQuery {
		m.focus = focusSearch
		m.input.Blur()
		return m, m.search.Focus()
	}
	m.focus = focusQuery
	m.search.Blur()
	return m, m.input.Focus()
}

// moveSelection moves the history selection and clamps it to the list.
func (m *Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.items) {
		m.selected = len(m.items) - 1
	}
	return m, nil
}

// handleSelect loads the selected history item into the answer pane.
func (m *Model) handleSelect() (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return m, nil
	}
	m.loadHistoryItem(m.items[m.selected])
	return m, nil
}

// cleanup cancels all operations and returns the quit command.
func (m *Model) cleanup() tea.Cmd {
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}
	return tea.Quit
}
