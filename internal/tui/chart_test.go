package tui

import (
	"strings"
	"testing"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
)

func TestRenderChart_Trend(t *testing.T) {
	p := &chart.Payload{
		Type: chart.TypeTrend,
		Items: []chart.Item{
			{Name: "Q1", Value: 10},
			{Name: "Q2", Value: 20},
		},
	}

	out := renderChart(p, 80, DefaultStyles())

	if !strings.Contains(out, "Trend") {
		t.Error("missing chart title")
	}
	for _, name := range []string{"Q1", "Q2"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing label %q", name)
		}
	}
	if !strings.Contains(out, "█") {
		t.Error("missing bar glyphs")
	}
	if !strings.Contains(out, "20.00") {
		t.Error("missing value annotation")
	}

	// The larger value draws the longer bar.
	q1 := strings.Count(lineFor(out, "Q1"), "█")
	q2 := strings.Count(lineFor(out, "Q2"), "█")
	if q2 <= q1 {
		t.Errorf("bar lengths q1=%d q2=%d, want q2 > q1", q1, q2)
	}
}

func TestRenderChart_ZeroValuesStillVisible(t *testing.T) {
	p := &chart.Payload{
		Type:  chart.TypeSector,
		Items: []chart.Item{{Name: "Flat", Value: 0}},
	}

	out := renderChart(p, 80, DefaultStyles())
	if !strings.Contains(out, "▏") {
		t.Error("zero-valued item should still draw a minimal bar")
	}
}

func TestRenderChart_Heatmap(t *testing.T) {
	p := &chart.Payload{
		Type: chart.TypeHeatmap,
		Items: []chart.Item{
			{Name: "AAPL", Value: 3},
			{Name: "MSFT", Value: 0.5},
		},
	}

	out := renderChart(p, 80, DefaultStyles())
	if !strings.Contains(out, "Heatmap") {
		t.Error("missing heatmap title")
	}
	if !strings.Contains(out, "████") {
		t.Error("max value should render the densest cell")
	}
}

func TestRenderChart_TruncatesLongSeries(t *testing.T) {
	items := make([]chart.Item, maxChartRows+5)
	for i := range items {
		items[i] = chart.Item{Name: "n", Value: float64(i + 1)}
	}
	p := &chart.Payload{Type: chart.TypeTrend, Items: items}

	out := renderChart(p, 80, DefaultStyles())
	if !strings.Contains(out, "5 more") {
		t.Error("missing truncation notice")
	}
}

func TestRenderChart_Nil(t *testing.T) {
	if renderChart(nil, 80, DefaultStyles()) != "" {
		t.Error("nil payload should render nothing")
	}
}

// lineFor returns the first output line containing substr.
func lineFor(out, substr string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
