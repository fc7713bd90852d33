// Package tui provides the Bubble Tea terminal dashboard: a query input, a
// rendered answer pane with optional chart, and a searchable history pane.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
	"github.com/darshil0/FinAgent-Pro/internal/history"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

// State represents the dashboard state machine.
type State int

// Dashboard states. A query is in flight only in StateThinking; submissions
// are ignored until the pending envelope arrives, so exactly one upstream
// call exists per accepted submit.
const (
	StateInput    State = iota // Awaiting user input
	StateThinking              // Query in flight
)

// focusTarget is the pane receiving keyboard input.
type focusTarget int

const (
	focusQuery focusTarget = iota
	focusSearch
)

// searchDebounce delays history filtering while the user is still typing.
const searchDebounce = 300 * time.Millisecond

// Layout constants for pane height calculation.
const (
	historyPaneLines = 8 // History pane height including its title
	separatorLines   = 2 // Separator above and below the input
	searchLines      = 1 // Search input line
	helpLines        = 1 // Help bar height
	promptLines      = 1 // Prompt prefix line
	minViewport      = 3 // Minimum answer pane height
)

// QueryClient is the slice of the query service the dashboard needs.
type QueryClient interface {
	Submit(ctx context.Context, raw string) query.Envelope
	Health() query.Health
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	// Query input (textarea for multi-line support)
	input textarea.Model

	// History search input with debounce bookkeeping. searchSeq invalidates
	// stale debounce ticks: only the tick carrying the latest sequence runs
	// the search.
	search    textinput.Model
	searchSeq int

	// State
	state     State
	focus     focusTarget
	lastCtrlC time.Time

	// Answer pane
	spinner  spinner.Model
	viewport viewport.Model
	answer   string         // Raw answer text of the latest envelope
	chart    *chart.Payload // Chart of the latest envelope, nil when absent
	errText  string         // Error of the latest envelope

	// History pane
	items    []history.Item
	selected int // Index into items when the history pane has focus

	// Help bar
	help help.Model
	keys keyMap

	// Dependencies
	client QueryClient
	store  *history.Store

	ctx       context.Context
	ctxCancel context.CancelFunc

	width  int
	height int

	styles   Styles
	markdown *markdownRenderer
	viewBuf  strings.Builder
}

// New creates a dashboard Model.
//
// ctx MUST be the same context passed to tea.WithContext() to ensure
// consistent cancellation behavior.
func New(ctx context.Context, client QueryClient, store *history.Store) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}
	if client == nil {
		return nil, errors.New("tui.New: query client is required")
	}
	if store == nil {
		return nil, errors.New("tui.New: history store is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = "Ask about markets, companies, indicators..."
	ta.SetHeight(1)
	ta.SetWidth(120)
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false

	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{
		Focused: cleanStyle,
		Blurred: cleanStyle,
	})
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "filter history"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{} // Keys are routed explicitly in handleKey

	return &Model{
		client:    client,
		store:     store,
		ctx:       ctx,
		ctxCancel: cancel,
		input:     ta,
		search:    ti,
		spinner:   sp,
		viewport:  vp,
		help:      help.New(),
		keys:      newKeyMap(),
		styles:    DefaultStyles(),
		items:     store.Items(),
		markdown:  newMarkdownRenderer(80),
		width:     80,
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
	)
}

// refreshHistory re-runs the current search against the store.
func (m *Model) refreshHistory() {
	m.items = m.store.Search(strings.TrimSpace(m.search.Value()))
}
