package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/goleak"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
	"github.com/darshil0/FinAgent-Pro/internal/history"
	"github.com/darshil0/FinAgent-Pro/internal/log"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

// goleakOptions filters persistent goroutines expected to exist.
func goleakOptions() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*http2clientConnReadLoop).run"),
	}
}

// fakeClient implements QueryClient with a canned envelope and call count.
type fakeClient struct {
	env   query.Envelope
	calls int
}

func (f *fakeClient) Submit(_ context.Context, _ string) query.Envelope {
	f.calls++
	return f.env
}

func (f *fakeClient) Health() query.Health {
	return query.Health{Status: query.StatusOperational, Timestamp: 1}
}

func newTestModel(t *testing.T, client QueryClient) *Model {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), log.NewNop())
	m, err := New(context.Background(), client, store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNew_Validation(t *testing.T) {
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), log.NewNop())
	client := &fakeClient{}

	//lint:ignore SA1012 intentionally testing nil context handling
	if _, err := New(nil, client, store); err == nil { //nolint:staticcheck
		t.Error("expected error for nil context")
	}
	if _, err := New(context.Background(), nil, store); err == nil {
		t.Error("expected error for nil client")
	}
	if _, err := New(context.Background(), client, nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestInit(t *testing.T) {
	defer goleak.VerifyNone(t, goleakOptions()...)

	m := newTestModel(t, &fakeClient{})
	if m.Init() == nil {
		t.Error("Init should return a command (blink + spinner tick)")
	}
}

func TestHandleSubmit_StartsQuery(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.input.SetValue("What drives gold prices?")

	model, cmd := m.handleSubmit()
	result := model.(*Model)

	if result.state != StateThinking {
		t.Errorf("state = %v, want StateThinking", result.state)
	}
	if cmd == nil {
		t.Error("expected a command (spinner tick + submit)")
	}
	if result.input.Value() != "" {
		t.Error("input should be cleared on submit")
	}
}

func TestHandleSubmit_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.input.SetValue("   ")

	_, cmd := m.handleSubmit()

	if cmd != nil {
		t.Error("whitespace-only input should not submit")
	}
	if m.state != StateInput {
		t.Errorf("state = %v, want StateInput", m.state)
	}
}

func TestEnterIgnoredWhileThinking(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, client)
	m.state = StateThinking
	m.input.SetValue("second question")

	model, _ := m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter}))
	result := model.(*Model)

	if result.state != StateThinking {
		t.Errorf("state = %v, want StateThinking", result.state)
	}
	if client.calls != 0 {
		t.Errorf("client calls = %d, want 0 while a query is in flight", client.calls)
	}
	if result.input.Value() != "second question" {
		t.Error("input should be preserved while a query is in flight")
	}
}

func TestUpdate_QueryDone_Success(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.state = StateThinking

	payload := &chart.Payload{
		Type:  chart.TypeTrend,
		Items: []chart.Item{{Name: "Q1", Value: 10}},
	}
	model, _ := m.Update(queryDoneMsg{
		query: "Plot revenue",
		env: query.Envelope{
			Success:   true,
			Data:      "Revenue grew.",
			Chart:     payload,
			Timestamp: 1700000000000,
			RequestID: "req-1",
		},
	})
	result := model.(*Model)

	if result.state != StateInput {
		t.Errorf("state = %v, want StateInput", result.state)
	}
	if result.answer != "Revenue grew." {
		t.Errorf("answer = %q", result.answer)
	}
	if result.chart == nil {
		t.Error("chart should be set from the envelope")
	}
	if result.store.Len() != 1 {
		t.Errorf("history length = %d, want 1", result.store.Len())
	}
	if len(result.items) != 1 {
		t.Errorf("history pane items = %d, want 1", len(result.items))
	}
}

func TestUpdate_QueryDone_Failure(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.state = StateThinking

	model, _ := m.Update(queryDoneMsg{
		query: "bad",
		env: query.Envelope{
			Success:   false,
			Error:     "service unavailable",
			Timestamp: 1,
			RequestID: "req-2",
		},
	})
	result := model.(*Model)

	if result.state != StateInput {
		t.Errorf("state = %v, want StateInput", result.state)
	}
	if result.errText != "service unavailable" {
		t.Errorf("errText = %q", result.errText)
	}
	if result.store.Len() != 0 {
		t.Errorf("failed queries must not enter history, got %d", result.store.Len())
	}
}

func TestSearchDebounce_StaleTickIgnored(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	seedHistory(t, m.store,
		history.Item{ID: "a", Query: "Apple revenue"},
		history.Item{ID: "b", Query: "Tesla margins"},
	)
	m.refreshHistory()

	m.search.SetValue("apple")
	m.searchSeq = 5

	// A tick from an earlier keystroke must not run the search.
	model, _ := m.Update(searchDebounceMsg{seq: 3})
	result := model.(*Model)
	if len(result.items) != 2 {
		t.Errorf("stale tick filtered the pane: %d items", len(result.items))
	}

	// The current tick runs it.
	model, _ = result.Update(searchDebounceMsg{seq: 5})
	result = model.(*Model)
	if len(result.items) != 1 || result.items[0].ID != "a" {
		t.Errorf("items = %+v, want only the Apple item", result.items)
	}
}

func TestSlashCommands(t *testing.T) {
	defer goleak.VerifyNone(t, goleakOptions()...)

	t.Run("health", func(t *testing.T) {
		m := newTestModel(t, &fakeClient{})
		model, _ := m.handleSlashCommand(cmdHealth)
		result := model.(*Model)
		if !strings.Contains(result.answer, query.StatusOperational) {
			t.Errorf("answer = %q, want health status", result.answer)
		}
	})

	t.Run("clear", func(t *testing.T) {
		m := newTestModel(t, &fakeClient{})
		seedHistory(t, m.store, history.Item{ID: "a", Query: "old"})
		m.refreshHistory()

		model, _ := m.handleSlashCommand(cmdClear)
		result := model.(*Model)
		if result.store.Len() != 0 || len(result.items) != 0 {
			t.Error("/clear should empty the store and the pane")
		}
	})

	t.Run("exit", func(t *testing.T) {
		m := newTestModel(t, &fakeClient{})
		_, cmd := m.handleSlashCommand(cmdExit)
		if cmd == nil {
			t.Error("expected quit command for /exit")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		m := newTestModel(t, &fakeClient{})
		model, _ := m.handleSlashCommand("/bogus")
		result := model.(*Model)
		if !strings.Contains(result.errText, "/bogus") {
			t.Errorf("errText = %q, want unknown command notice", result.errText)
		}
	})
}

func TestHistorySelection(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	seedHistory(t, m.store,
		history.Item{ID: "old", Query: "first", Response: "first answer"},
		history.Item{ID: "new", Query: "second", Response: "second answer"},
	)
	m.refreshHistory()
	m.focus = focusSearch

	// Newest first: index 0 is "new".
	m.moveSelection(1)
	model, _ := m.handleSelect()
	result := model.(*Model)

	if result.answer != "first answer" {
		t.Errorf("answer = %q, want the older item's response", result.answer)
	}

	// Selection clamps at the ends.
	m.moveSelection(100)
	if m.selected != len(m.items)-1 {
		t.Errorf("selected = %d, want clamped to %d", m.selected, len(m.items)-1)
	}
	m.moveSelection(-100)
	if m.selected != 0 {
		t.Errorf("selected = %d, want clamped to 0", m.selected)
	}
}

func seedHistory(t *testing.T, store *history.Store, items ...history.Item) {
	t.Helper()
	for _, item := range items {
		if err := store.Append(item); err != nil {
			t.Fatalf("seeding history: %v", err)
		}
	}
}
