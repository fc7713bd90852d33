package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// View implements tea.Model.
// Uses AltScreen with a viewport for the scrollable answer pane.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	// Answer pane (scrollable)
	_, _ = m.viewBuf.WriteString(m.viewport.View())
	_, _ = m.viewBuf.WriteString("\n")

	// History pane
	_, _ = m.viewBuf.WriteString(m.renderHistoryPane())

	// Separator above input
	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	// Query input
	_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	_, _ = m.viewBuf.WriteString(m.input.View())
	_, _ = m.viewBuf.WriteString("\n")

	// Separator below input
	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	// Help bar
	_, _ = m.viewBuf.WriteString(m.renderStatusBar())

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the answer pane from the latest
// envelope and state.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")

	switch {
	case m.state == StateThinking:
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" Analyzing...\n")

	case m.errText != "":
		_, _ = b.WriteString(m.styles.Error.Render("Error: " + m.errText))
		_, _ = b.WriteString("\n")

	case m.answer != "":
		_, _ = b.WriteString(m.markdown.Render(m.displayAnswer()))
		_, _ = b.WriteString("\n")
		if m.chart != nil {
			_, _ = b.WriteString("\n")
			_, _ = b.WriteString(renderChart(m.chart, m.chartWidth(), m.styles))
			_, _ = b.WriteString("\n")
		}

	default:
		_, _ = b.WriteString(m.styles.RenderWelcomeTips())
	}

	m.viewport.SetContent(b.String())
}

// renderHistoryPane renders the capped history list with the current
// selection highlighted.
func (m *Model) renderHistoryPane() string {
	var b strings.Builder

	title := fmt.Sprintf("History (%d)", len(m.items))
	if q := strings.TrimSpace(m.search.Value()); q != "" {
		title = fmt.Sprintf("History (%d matching %q)", len(m.items), q)
	}
	_, _ = b.WriteString(m.styles.Header.Render(title))
	_, _ = b.WriteString("  ")
	_, _ = b.WriteString(m.search.View())
	_, _ = b.WriteString("\n")

	rows := historyPaneLines - 1 // Minus the title line
	for i := 0; i < rows; i++ {
		if i < len(m.items) {
			_, _ = b.WriteString(m.renderHistoryRow(i))
		}
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderHistoryRow(i int) string {
	item := m.items[i]

	ts := time.UnixMilli(item.Timestamp).Format("15:04")
	line := fmt.Sprintf("%s  %s", ts, truncate(item.Query, max(m.width-12, 20)))

	if m.focus == focusSearch && i == m.selected {
		return m.styles.Selected.Render("▸ " + line)
	}
	return m.styles.System.Render("  " + line)
}

// renderSeparator returns a horizontal line separator.
func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar returns state-appropriate keyboard shortcut help.
func (m *Model) renderStatusBar() string {
	var bindings []key.Binding
	switch {
	case m.state == StateThinking:
		bindings = []key.Binding{m.keys.ScrollUp, m.keys.ScrollDown, m.keys.Quit}
	case m.focus == focusSearch:
		bindings = []key.Binding{m.keys.Select, m.keys.Pane, m.keys.Cancel, m.keys.Quit}
	default:
		bindings = []key.Binding{
			m.keys.Submit, m.keys.NewLine, m.keys.Pane,
			m.keys.Cancel, m.keys.Quit, m.keys.ScrollUp,
		}
	}
	return m.help.ShortHelpView(bindings)
}

// chartWidth bounds the bar chart to the pane width.
func (m *Model) chartWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// truncate shortens s to at most n runes, ellipsized.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
