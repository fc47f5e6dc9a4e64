package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/adsim/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-52000, "-52,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatAmount(1525.9); got != "1,525" {
		t.Errorf("FormatAmount = %q", got)
	}
	if got := FormatPercent(48.04); got != "48.0%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatROAS(333); got != "333%" {
		t.Errorf("FormatROAS = %q", got)
	}
	if got := FormatDelta(90, 100); got != "-10" {
		t.Errorf("FormatDelta = %q", got)
	}
	if got := FormatDelta(1100, 100); got != "+1,000" {
		t.Errorf("FormatDelta = %q", got)
	}
	if got := FormatMultiplier(1.5); got != "×1.5" {
		t.Errorf("FormatMultiplier = %q", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderTable(Table{
		Headers: []string{"Period", "Profit"},
		Rows: [][]string{
			{"2025-01", "240"},
			{SeparatorRow},
			{"Total", "-1,200"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != width {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), width, out)
		}
	}
	if !strings.Contains(lines[3], "    240 ") {
		t.Fatalf("numeric column should be right-aligned: %q", lines[3])
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("RenderSparkline(nil) = %q", got)
	}
	if got := RenderSparkline([]float64{-10, 0, 10}); got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline([]float64{5, 5}); got != "██" {
		t.Fatalf("flat sparkline = %q", got)
	}
}

func TestRenderFindings(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	if got := RenderFindings(nil); !strings.Contains(got, "No issues") {
		t.Fatalf("empty findings = %q", got)
	}
	got := RenderFindings([]model.Finding{{Kind: model.KindWarning, Title: "Loss-making periods", Detail: "2025-03 runs at a loss", Impact: model.ImpactHigh}})
	if !strings.Contains(got, "! Loss-making periods") || !strings.Contains(got, "(high impact)") {
		t.Fatalf("RenderFindings = %q", got)
	}
}
