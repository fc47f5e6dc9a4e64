package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/adsim/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22, false)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22, true)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no styling: %q", i, lines[i])
		}
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != width {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(l), width)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Revenue", Value: "6,000"},
		{Label: "Profit", Value: "-120", Tone: ToneNegative},
		{Label: "ROAS", Value: "333%", Note: "mean 331%"},
	}, 90)
	for i, l := range strings.Split(row, "\n") {
		if w := lipgloss.Width(l); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('s'); got != 2 {
		t.Fatalf("TabIdxByKey('s') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestTabVisualWidth(t *testing.T) {
	for i, tab := range Tabs {
		want := len(tab.Name) + 2
		for _, active := range []bool{true, false} {
			if got := TabVisualWidth(tab, active); got != want {
				t.Errorf("tab %d active=%v width = %d, want %d", i, active, got, want)
			}
		}
	}
}

func TestSparklineScalesNegatives(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	if got := Sparkline([]float64{-10, 0, 10}, theme.Active.Green); got != "▁▄█" {
		t.Fatalf("Sparkline = %q, want ▁▄█", got)
	}
}

func TestBarChartHeight(t *testing.T) {
	out := BarChart([]float64{500, 525, 551, 578}, []string{"01", "02", "03", "04"}, theme.Active.Blue, 40, 8)
	lines := strings.Split(out, "\n")
	// bars + axis + labels
	if len(lines) < 4 {
		t.Fatalf("BarChart produced %d lines", len(lines))
	}
	if !strings.Contains(lines[len(lines)-2], "└") {
		t.Fatalf("missing x axis: %q", lines[len(lines)-2])
	}
	if got := BarChart(nil, nil, theme.Active.Blue, 40, 8); got != "" {
		t.Fatalf("empty BarChart = %q", got)
	}
}

func TestSignedBars(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	out := SignedBars([]float64{-100, 300}, []string{"2025-01", "2025-02"}, theme.Active.Green, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	axisCol := func(l string) int {
		i := strings.Index(l, "│")
		if i < 0 {
			return -1
		}
		return lipgloss.Width(l[:i])
	}
	if axisCol(lines[0]) < 0 || axisCol(lines[0]) != axisCol(lines[1]) {
		t.Fatalf("zero axis not aligned:\n%s", out)
	}
	if !strings.Contains(lines[0], "-100") || !strings.Contains(lines[1], "300") {
		t.Fatalf("values missing:\n%s", out)
	}
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Fatalf("rows differ in width:\n%s", out)
	}
}

func TestShareBar(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	out := ShareBar("Cost", 1.25, 6, 10)
	if !strings.Contains(out, "125%") {
		t.Fatalf("ShareBar = %q", out)
	}
	if ColorForShare(1.25) != theme.Active.Red || ColorForShare(0.3) != theme.Active.Green {
		t.Fatal("ColorForShare thresholds")
	}
}
