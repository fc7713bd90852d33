package tui

import (
	"fmt"
	"strings"

	"github.com/darshil0/FinAgent-Pro/internal/chart"
)

// Bar chart layout.
const (
	maxBarWidth  = 40
	labelWidth   = 16
	heatmapRamp  = " ░▒▓█"
	maxChartRows = 12
)

// renderChart draws a payload as horizontal bars sized relative to the
// largest absolute value. Trend and sector payloads render bar lengths;
// heatmap payloads render intensity cells from a shade ramp.
func renderChart(p *chart.Payload, width int, styles Styles) string {
	if p == nil || len(p.Items) == 0 {
		return ""
	}

	items := p.Items
	if len(items) > maxChartRows {
		items = items[:maxChartRows]
	}

	maxAbs := 0.0
	for _, item := range items {
		if v := abs(item.Value); v > maxAbs {
			maxAbs = v
		}
	}

	barWidth := min(maxBarWidth, max(width-labelWidth-12, 5))

	var b strings.Builder
	_, _ = b.WriteString(styles.Header.Render(chartTitle(p.Type)))
	_, _ = b.WriteString("\n")

	for _, item := range items {
		label := padLabel(item.Name)
		_, _ = b.WriteString(styles.BarLabel.Render(label))
		_, _ = b.WriteString(" ")

		if p.Type == chart.TypeHeatmap {
			_, _ = b.WriteString(styles.Bar.Render(heatCell(item.Value, maxAbs)))
		} else {
			_, _ = b.WriteString(styles.Bar.Render(bar(item.Value, maxAbs, barWidth)))
		}

		_, _ = b.WriteString(styles.BarLabel.Render(fmt.Sprintf(" %.2f", item.Value)))
		_, _ = b.WriteString("\n")
	}

	if len(p.Items) > maxChartRows {
		_, _ = b.WriteString(styles.System.Render(
			fmt.Sprintf("  … %d more", len(p.Items)-maxChartRows)))
		_, _ = b.WriteString("\n")
	}

	return b.String()
}

// chartTitle maps a payload type to a pane heading.
func chartTitle(chartType string) string {
	switch chartType {
	case chart.TypeTrend:
		return "Trend"
	case chart.TypeSector:
		return "By sector"
	case chart.TypeHeatmap:
		return "Heatmap"
	default:
		return "Chart"
	}
}

// bar returns a block bar proportional to value against the series maximum.
// Zero-valued items still draw one cell so every row is visible.
func bar(value, maxAbs float64, width int) string {
	if maxAbs == 0 {
		return "▏"
	}
	n := int(abs(value) / maxAbs * float64(width))
	if n < 1 {
		return "▏"
	}
	return strings.Repeat("█", n)
}

// heatCell maps a value to a fixed-width intensity cell.
func heatCell(value, maxAbs float64) string {
	ramp := []rune(heatmapRamp)
	idx := len(ramp) - 1
	if maxAbs > 0 {
		idx = int(abs(value) / maxAbs * float64(len(ramp)-1))
		if idx >= len(ramp) {
			idx = len(ramp) - 1
		}
	}
	return strings.Repeat(string(ramp[idx]), 4)
}

// padLabel truncates or pads a name to the fixed label column.
func padLabel(name string) string {
	r := []rune(name)
	if len(r) > labelWidth {
		return string(r[:labelWidth-1]) + "…"
	}
	return name + strings.Repeat(" ", labelWidth-len(r))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
